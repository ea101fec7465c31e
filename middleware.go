package quest

import "net/http"

// Middleware wraps the transport that a client issues its requests through.
type Middleware func(http.RoundTripper) http.RoundTripper

// Wrap takes the inner transport rt and wraps it with middleware. The order is that of the Gorilla and Chi router.
// That is: the middleware provided first sees the request first and is the "outer" most wrapping, the middleware
// provided last will be the "inner most" wrapping (closest to the network).
func Wrap(rt http.RoundTripper, m ...Middleware) http.RoundTripper {
	if len(m) < 1 {
		return rt
	}

	wrapped := rt
	for i := len(m) - 1; i >= 0; i-- {
		wrapped = m[i](wrapped)
	}

	return wrapped
}
