package quest

import (
	"context"
	"io"
	"net"
	"syscall"

	"github.com/cockroachdb/errors"
)

// Transport codes reported by [Error.TransportCode].
const (
	TransportRefused          = "ECONNREFUSED"
	TransportReset            = "ECONNRESET"
	TransportBrokenPipe       = "EPIPE"
	TransportNotFound         = "ENOTFOUND"
	TransportTimeout          = "ETIMEDOUT"
	TransportCanceled         = "ECANCELED"
	TransportUnreachable      = "EHOSTUNREACH"
	TransportTooManyRedirects = "ERR_TOO_MANY_REDIRECTS"
	TransportUnknown          = "EUNKNOWN"
)

// transportCode maps a failure returned by a RoundTripper (or a response body) onto a symbolic code.
func transportCode(err error) string {
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.Canceled):
		return TransportCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return TransportTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return TransportRefused
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return TransportReset
	case errors.Is(err, syscall.EPIPE):
		return TransportBrokenPipe
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return TransportUnreachable
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return TransportTimeout
		}
		return TransportNotFound
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportTimeout
	}

	return TransportUnknown
}

// transportError classifies a connection-level failure for the request chain started at o.
func (o origin) transportError(err error) *Error {
	return &Error{
		kind:      KindTransport,
		transport: transportCode(err),
		message:   err.Error(),
		method:    o.method,
		url:       o.url,
		cause:     err,
	}
}
