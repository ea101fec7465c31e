package quest

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is the status a [KindHTTP] error carries: the response status, or the "code" field of a JSON error body
// when the server sent one. Any int is a valid Code, the constants name the ones callers commonly switch on.
type Code int

const (
	CodeUnknown Code = 0

	CodeBadRequest          Code = http.StatusBadRequest
	CodeUnauthorized        Code = http.StatusUnauthorized
	CodeForbidden           Code = http.StatusForbidden
	CodeNotFound            Code = http.StatusNotFound
	CodeMethodNotAllowed    Code = http.StatusMethodNotAllowed
	CodeConflict            Code = http.StatusConflict
	CodeGone                Code = http.StatusGone
	CodeUnprocessableEntity Code = http.StatusUnprocessableEntity
	CodeTooManyRequests     Code = http.StatusTooManyRequests

	CodeInternalServerError Code = http.StatusInternalServerError
	CodeNotImplemented      Code = http.StatusNotImplemented
	CodeBadGateway          Code = http.StatusBadGateway
	CodeServiceUnavailable  Code = http.StatusServiceUnavailable
	CodeGatewayTimeout      Code = http.StatusGatewayTimeout
)

func (c Code) String() string {
	if c == CodeUnknown {
		return "unknown"
	}
	return statusMessage(int(c))
}

// ErrorKind tells what part of a request's lifecycle produced an [*Error].
type ErrorKind int

const (
	// KindTransport is a connection-level failure: refused, reset, dns, timeout or a premature close.
	KindTransport ErrorKind = iota + 1
	// KindHTTP is a response with a 4xx or 5xx status.
	KindHTTP
	// KindParse is a response body that could not be decoded as JSON.
	KindParse
	// KindRedirect is a redirect chain that exceeded the client's hop limit.
	KindRedirect
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindParse:
		return "parse"
	case KindRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Usage errors. These are returned synchronously, before any network activity takes place.
var (
	ErrUnknownMethod    = errors.New("quest: unknown HTTP method")
	ErrUnsupportedURL   = errors.New("quest: unsupported url")
	ErrInvalidHeader    = errors.New("quest: invalid header")
	ErrRequestEnded     = errors.New("quest: request already sent")
	ErrRequestDestroyed = errors.New("quest: request destroyed")
	ErrUnsupportedBody  = errors.New("quest: unsupported body")
	ErrStreamDestroyed  = errors.New("quest: stream destroyed")
	ErrTooManyRedirects = errors.New("quest: too many redirects")
)

// Error is the classified failure of a single request. Exactly one is produced for every request that does not
// resolve into a response.
type Error struct {
	kind      ErrorKind
	code      Code
	transport string
	message   string
	body      []byte
	header    http.Header
	method    string
	url       string
	cause     error
}

// Kind returns which part of the lifecycle failed.
func (e *Error) Kind() ErrorKind { return e.kind }

// Code returns the http status (or the code the server put in its error body). It is [CodeUnknown] for errors that
// did not come from a response.
func (e *Error) Code() Code { return e.code }

// TransportCode returns the symbolic code of a transport failure, e.g. "ECONNREFUSED".
func (e *Error) TransportCode() string { return e.transport }

// Message returns the human-readable message.
func (e *Error) Message() string { return e.message }

// Body returns the raw bytes that failed to parse as JSON, if any.
func (e *Error) Body() []byte { return e.body }

// Header returns the response headers for errors that were produced from a response.
func (e *Error) Header() http.Header { return e.header }

// Method returns the method of the request the caller originally issued.
func (e *Error) Method() string { return e.method }

// URL returns the url the caller originally requested, even when the failure happened after a redirect.
func (e *Error) URL() string { return e.url }

// Unwrap returns the underlying transport or parser failure.
func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Error() string {
	if e.url == "" {
		return e.message
	}

	return fmt.Sprintf("%s %s: %s", e.method, e.url, e.message)
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if qerr, ok := asError(err); ok {
		return qerr.Code()
	}
	return CodeUnknown
}

// TransportCodeOf returns the transport code if err is or wraps an [*Error], the empty string otherwise.
func TransportCodeOf(err error) string {
	if qerr, ok := asError(err); ok {
		return qerr.TransportCode()
	}
	return ""
}

// asError uses errors.As to unwrap any error and look for a *Error.
func asError(err error) (*Error, bool) {
	var qerr *Error
	ok := errors.As(err, &qerr)
	return qerr, ok
}

// origin is the request context that every error of one call chain reports, redirects included.
type origin struct {
	method string
	url    string
}

func (o origin) errorf(kind ErrorKind, code Code, format string, args ...any) *Error {
	return &Error{
		kind:    kind,
		code:    code,
		message: fmt.Sprintf(format, args...),
		method:  o.method,
		url:     o.url,
	}
}

// statusMessage is the message used when a failed response explains nothing itself.
func statusMessage(status int) string {
	text := http.StatusText(status)
	if text == "" {
		text = "Unknown"
	}

	return fmt.Sprintf("%d %s", status, text)
}
