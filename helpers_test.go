package quest_test

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/require"
)

// respond returns a transport that answers every request with the given status, headers and body.
func respond(status int, header http.Header, body string) requests.RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		if header == nil {
			header = http.Header{}
		}

		return &http.Response{
			StatusCode: status,
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// sent records what reached the transport.
type sent struct {
	Method string
	URL    string
	Host   string
	Header http.Header
	Body   string
	Length int64
}

type recorder struct {
	mu   sync.Mutex
	sent []sent
}

// middleware records each request, including its body, before passing it on.
func (r *recorder) middleware(tb testing.TB) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		return requests.RoundTripFunc(func(req *http.Request) (*http.Response, error) {
			var body []byte
			if req.Body != nil {
				var err error
				body, err = io.ReadAll(req.Body)
				require.NoError(tb, err)
				req.Body = io.NopCloser(strings.NewReader(string(body)))
			}

			r.mu.Lock()
			r.sent = append(r.sent, sent{
				Method: req.Method,
				URL:    req.URL.String(),
				Host:   req.Host,
				Header: req.Header.Clone(),
				Body:   string(body),
				Length: req.ContentLength,
			})
			r.mu.Unlock()

			return next.RoundTrip(req)
		})
	}
}

func (r *recorder) requests() []sent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sent(nil), r.sent...)
}
