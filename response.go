package quest

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Response describes a response that was resolved by the classifier. Its body is read lazily and must be closed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser

	// Request is the request that produced this response, which is the last hop when redirects were followed.
	Request *Request
}

// Value returns all values of the named header joined by ", ". The name is case-insensitive.
func (r *Response) Value(name string) string {
	return strings.Join(r.Header.Values(name), ", ")
}

// Headers returns the headers with lower-cased names and multiple values joined by ", ".
func (r *Response) Headers() map[string]string {
	return lo.MapEntries(r.Header, func(name string, values []string) (string, string) {
		return strings.ToLower(name), strings.Join(values, ", ")
	})
}

func newResponse(req *Request, res *http.Response) *Response {
	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       &releaseBody{ReadCloser: res.Body, release: req.release},
		Request:    req,
	}
}

// releaseBody frees the request's context once the body is closed.
type releaseBody struct {
	io.ReadCloser
	release func()
	once    sync.Once
}

func (b *releaseBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}
