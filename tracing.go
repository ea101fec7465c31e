package quest

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NewTracingMiddleware instruments the transport with OpenTelemetry tracing: every hop, redirects included, becomes
// a client span and the trace context is propagated to the server. The TracerProvider and Propagator are explicitly
// injected to avoid global state.
func NewTracingMiddleware(tp trace.TracerProvider, prop propagation.TextMapPropagator) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return otelhttp.NewTransport(next,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}
}

// WithTracing adds [NewTracingMiddleware] to the client.
func WithTracing(tp trace.TracerProvider, prop propagation.TextMapPropagator) Option {
	return WithMiddleware(NewTracingMiddleware(tp, prop))
}
