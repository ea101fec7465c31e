package quest

import "context"

// DefaultClient is the url client used by the package-level functions.
var DefaultClient = New()

// NewRequest creates a request with [DefaultClient].
func NewRequest(method, target string, header Header) (*Request, error) {
	return DefaultClient.NewRequest(method, target, header)
}

// Get issues a GET request with [DefaultClient] and returns the response as a stream.
func Get(ctx context.Context, target string, header Header) (*Stream, error) {
	return DefaultClient.Stream(ctx, target, header)
}

// Fetch issues a GET request with [DefaultClient] and returns the complete body.
func Fetch(ctx context.Context, target string, header Header) ([]byte, error) {
	return DefaultClient.Fetch(ctx, target, header)
}

// JSON issues a GET request with [DefaultClient] and parses the body as JSON.
func JSON(ctx context.Context, target string, header Header) (any, error) {
	return DefaultClient.JSON(ctx, target, header)
}
