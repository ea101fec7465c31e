package quest

import (
	"context"
	"net/http"
	"net/url"
)

// DefaultMaxRedirects is how many 301/302 hops a client follows unless configured otherwise.
const DefaultMaxRedirects = 10

// Client creates requests and classifies their responses. A client either addresses servers by url ([New]) or
// sends every request over a unix socket ([Sock]). It is safe for concurrent use.
type Client struct {
	addr         addressing
	transport    http.RoundTripper
	logs         Logger
	metrics      *Metrics
	maxRedirects int
}

type clientConfig struct {
	transport    http.RoundTripper
	middleware   []Middleware
	logs         Logger
	metrics      *Metrics
	maxRedirects int
}

// Option configures a Client.
type Option func(*clientConfig)

// WithTransport sets the transport requests are issued through. It defaults to [http.DefaultTransport] for url
// clients and to a unix socket dialing transport for socket clients.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *clientConfig) { c.transport = rt }
}

// WithMiddleware wraps the transport, see [Wrap] for the order.
func WithMiddleware(m ...Middleware) Option {
	return func(c *clientConfig) { c.middleware = append(c.middleware, m...) }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logs Logger) Option {
	return func(c *clientConfig) { c.logs = logs }
}

// WithMetrics records request outcomes in m.
func WithMetrics(m *Metrics) Option {
	return func(c *clientConfig) { c.metrics = m }
}

// WithMaxRedirects caps the number of redirects that are followed per request. A negative value follows redirects
// without limit.
func WithMaxRedirects(n int) Option {
	return func(c *clientConfig) { c.maxRedirects = n }
}

// New creates a client that addresses servers by "scheme://host[:port][/path]" urls.
func New(opts ...Option) *Client {
	return newClient(urlAddressing{}, opts)
}

// Sock creates a client that sends every request over the unix socket at path. Request targets are paths.
func Sock(path string, opts ...Option) *Client {
	return newClient(sockAddressing{path: path}, opts)
}

func newClient(addr addressing, opts []Option) *Client {
	cfg := clientConfig{logs: nopLogger{}, maxRedirects: DefaultMaxRedirects}
	for _, opt := range opts {
		opt(&cfg)
	}

	base := cfg.transport
	if base == nil {
		base = addr.transport()
	}

	return &Client{
		addr:         addr,
		transport:    Wrap(base, cfg.middleware...),
		logs:         cfg.logs,
		metrics:      cfg.metrics,
		maxRedirects: cfg.maxRedirects,
	}
}

// NewRequest creates a request handle. Unknown methods, unsupported targets and invalid headers fail here, before
// anything is sent.
func (c *Client) NewRequest(method, target string, header Header) (*Request, error) {
	if err := checkMethod(method); err != nil {
		return nil, err
	}

	u, err := c.addr.parse(target)
	if err != nil {
		return nil, err
	}

	h, err := normalizeHeader(header)
	if err != nil {
		return nil, err
	}

	return c.newRequest(method, u, h, nil), nil
}

func (c *Client) newRequest(method string, u *url.URL, h http.Header, body []byte) *Request {
	return &Request{client: c, method: method, url: u, header: h, body: body}
}

// Stream issues a GET request for target and returns its response as a stream.
func (c *Client) Stream(ctx context.Context, target string, header Header) (*Stream, error) {
	req, err := c.NewRequest(http.MethodGet, target, header)
	if err != nil {
		return nil, err
	}

	return c.StreamRequest(ctx, req), nil
}

// Fetch issues a GET request for target and returns the complete response body.
func (c *Client) Fetch(ctx context.Context, target string, header Header) ([]byte, error) {
	s, err := c.Stream(ctx, target, header)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return Drain(s)
}

// JSON issues a GET request for target and parses the response body as JSON. An empty body yields nil.
func (c *Client) JSON(ctx context.Context, target string, header Header) (any, error) {
	s, err := c.Stream(ctx, target, header)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return ParseJSON(s)
}
