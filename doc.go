// Package quest is a small convenience layer for issuing HTTP requests and classifying their responses.
//
// # Overview
//
// quest sits directly on top of an [net/http.RoundTripper]. Given a method, a target and headers it creates a
// request handle, lets the caller attach a body and turns the eventual response into one of three shapes: a
// [*Stream], a fully buffered []byte or parsed JSON. Non-2xx responses and transport failures are classified into a
// single error type, [*Error].
//
// A minimal example:
//
//	widget, err := quest.JSON(ctx, "http://example.com/widgets/1", nil)
//	if err != nil {
//	    switch quest.CodeOf(err) {
//	    case quest.CodeNotFound:
//	        // ...
//	    }
//	}
//
// # Clients and targets
//
// A [Client] addresses servers in one of two ways, picked when it is created:
//
//   - [New] creates a client whose targets are "scheme://host[:port][/path]" urls
//   - [Sock] creates a client that sends every request over a unix socket, its targets are paths
//
// Both create requests with [Client.NewRequest]. Unknown methods, unsupported targets and invalid headers are
// usage errors: they are returned right there, before anything is sent. Header values may be of any type, nil values
// are dropped and slices are joined with commas.
//
//	c := quest.Sock("/var/run/docker.sock")
//	info, err := c.JSON(ctx, "/info", quest.Header{"Accept": "application/json"})
//
// # Bodies
//
// [Request.Send] encodes a body into the request. Byte slices and strings are sent as they are, any other value
// is encoded as JSON and declared with a Content-Type header. The Content-Length header always matches the
// buffered body.
//
//	req, err := c.NewRequest("POST", "http://example.com/widgets", nil)
//	if err != nil {
//	    return err
//	}
//	if err := req.Send(map[string]any{"name": "sprocket"}); err != nil {
//	    return err
//	}
//	res, err := req.Ok(ctx)
//
// # Classification
//
// [Client.Ok] sends a request and resolves exactly one of a [*Response] or an [*Error]:
//
//   - transport failures reject with [KindTransport] and a code such as [TransportRefused]
//   - 2xx responses resolve
//   - 301 and 302 responses with a Location header are followed with a new request
//   - 4xx and 5xx responses reject with [KindHTTP]. The message comes from an "error" or "x-error" header, or from
//     the "error" field of a JSON body whose "code" field then overrides the status
//   - everything else resolves as is
//
// The number of redirects that are followed is capped by [WithMaxRedirects].
//
// # Streams
//
// [Client.StreamRequest] returns a [*Stream] right away, before the response is classified. Reading from it blocks
// until the status and headers are known and then relays the body in the order it arrives. Closing a stream aborts
// the underlying request and silences any error that shows up afterwards.
//
//	s := req.Stream(ctx)
//	defer s.Close()
//	for chunk, err := range s.Chunks() {
//	    if err != nil {
//	        return err
//	    }
//	    os.Stdout.Write(chunk)
//	}
//
// [Drain] buffers a stream completely, [ParseJSON] and [DecodeJSON] parse it. Bodies that fail to parse produce an
// [*Error] of kind [KindParse] that carries the raw body.
//
// # Observability
//
// [WithLogger] reports followed redirects and suppressed errors, [WithMetrics] counts outcomes with Prometheus
// collectors and [WithTracing] wraps the transport with OpenTelemetry instrumentation. Any other transport concern
// can be added with [WithMiddleware].
package quest
