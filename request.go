package quest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
)

// Request is the handle of one outgoing request. It is owned by the caller that created it until it is handed to
// [Client.Ok] (or one of the methods built on it), after which no more writes are permitted.
type Request struct {
	client *Client
	method string
	url    *url.URL
	header http.Header
	body   []byte

	mu        sync.Mutex
	ended     bool
	destroyed bool
	cancel    context.CancelFunc
}

// Method returns the request method.
func (r *Request) Method() string { return r.method }

// URL returns the url the request is sent to.
func (r *Request) URL() *url.URL { return r.url }

// Header returns the outgoing headers. They may be modified until the request is sent.
func (r *Request) Header() http.Header { return r.header }

// Ended reports whether the request was finalized.
func (r *Request) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

// Destroyed reports whether the request was aborted.
func (r *Request) Destroyed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed
}

// Write appends p to the request body and updates Content-Length.
func (r *Request) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ended {
		return 0, ErrRequestEnded
	}

	r.body = append(r.body, p...)
	r.setLength()
	return len(p), nil
}

// Destroy aborts the request, releasing its connection. It is safe to call more than once.
func (r *Request) Destroy() {
	r.mu.Lock()
	r.destroyed = true
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// release frees the request's context after its response body was closed.
func (r *Request) release() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// end finalizes the request and builds what is handed to the transport.
func (r *Request) end(ctx context.Context) (*http.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.ended:
		return nil, errors.Wrapf(ErrRequestEnded, "%s %s", r.method, r.url)
	case r.destroyed:
		return nil, errors.Wrapf(ErrRequestDestroyed, "%s %s", r.method, r.url)
	}

	r.ended = true
	ctx, r.cancel = context.WithCancel(ctx)

	rb := requests.URL(r.url.String()).Method(r.method)
	for name, values := range r.header {
		rb = rb.Header(name, values...)
	}

	if r.body != nil {
		rb = rb.BodyBytes(r.body)
	}

	req, err := rb.Request(ctx)
	if err != nil {
		r.cancel()
		return nil, errors.Wrap(err, "failed to build request")
	}

	if r.body != nil {
		body := r.body
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		req.Body, _ = req.GetBody()
	}

	if host := r.header.Get("Host"); host != "" {
		req.Host = host
	}

	return req, nil
}

// redirect creates the request that follows a 301/302 response of r to location.
func (r *Request) redirect(location string) (*Request, error) {
	var target string
	switch {
	case len(location) > 1 && location[0] == '/' && location[1] == '/':
		target = r.url.Scheme + ":" + location
	case len(location) > 0 && location[0] == '/':
		host := r.header.Get("Host")
		if host == "" {
			host = r.url.Host
		}
		target = r.url.Scheme + "://" + host + location
	default:
		ref, err := url.Parse(location)
		if err != nil {
			return nil, errors.Wrapf(ErrUnsupportedURL, "%s: %v", location, err)
		}
		target = r.url.ResolveReference(ref).String()
	}

	u, err := r.client.addr.parse(target)
	if err != nil {
		return nil, err
	}

	header := r.header.Clone()
	if u.Host != r.url.Host && header.Get("Host") != u.Host {
		header.Del("Host")
	}

	return r.client.newRequest(r.method, u, header, r.body), nil
}

// setLength declares the exact size of the buffered body. Callers hold r.mu.
func (r *Request) setLength() {
	r.header.Set("Content-Length", strconv.Itoa(len(r.body)))
}

// Ok sends the request and classifies its response, see [Client.Ok].
func (r *Request) Ok(ctx context.Context) (*Response, error) {
	return r.client.Ok(ctx, r)
}

// Stream sends the request and returns its response as a stream, see [Client.StreamRequest].
func (r *Request) Stream(ctx context.Context) *Stream {
	return r.client.StreamRequest(ctx, r)
}

// Fetch sends the request and returns the complete response body.
func (r *Request) Fetch(ctx context.Context) ([]byte, error) {
	s := r.Stream(ctx)
	defer s.Close()

	return Drain(s)
}

// JSON sends the request and parses the response body as JSON. An empty body yields nil.
func (r *Request) JSON(ctx context.Context) (any, error) {
	s := r.Stream(ctx)
	defer s.Close()

	return ParseJSON(s)
}
