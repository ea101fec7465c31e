package quest

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/http/httpguts"
)

// addressing decides how request targets are interpreted and how the server is reached. A client picks exactly one
// implementation when it is constructed.
type addressing interface {
	parse(target string) (*url.URL, error)
	transport() http.RoundTripper
}

// urlAddressing accepts "scheme://host[:port][/path]" targets and reaches them over tcp.
type urlAddressing struct{}

func (urlAddressing) parse(target string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedURL, "%s: %v", target, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Wrapf(ErrUnsupportedURL, "%s", target)
	}

	if u.Host == "" || !httpguts.ValidHostHeader(u.Host) {
		return nil, errors.Wrapf(ErrUnsupportedURL, "%s: invalid host", target)
	}

	if u.Path == "" {
		u.Path = "/"
	}

	return u, nil
}

func (urlAddressing) transport() http.RoundTripper {
	return http.DefaultTransport
}

// sockHost is the Host header sent for requests over a unix socket.
const sockHost = "localhost"

// sockAddressing accepts request paths and sends them over the unix socket at path. Absolute http urls are accepted
// as well, their host then only ends up in the Host header.
type sockAddressing struct {
	path string
}

func (a sockAddressing) parse(target string) (*url.URL, error) {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return urlAddressing{}.parse(target)
	}

	u, err := url.ParseRequestURI(target)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedURL, "%s: %v", target, err)
	}

	u.Scheme, u.Host = "http", sockHost
	return u, nil
}

func (a sockAddressing) transport() http.RoundTripper {
	return &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", a.path)
		},
	}
}
