package quest_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/advdv/quest"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing(t *testing.T) {
	ctx := context.Background()

	var (
		mu      sync.Mutex
		parents []string
	)
	record := func(r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		parents = append(parents, r.Header.Get("Traceparent"))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte("ok"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { tp.Shutdown(ctx) })

	c := quest.New(quest.WithTracing(tp, propagation.TraceContext{}))

	body, err := c.Fetch(ctx, srv.URL+"/old", nil)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, parents, 2)
	require.NotEmpty(t, parents[0])
	require.NotEmpty(t, parents[1])

	spans := sr.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "GET /old", spans[0].Name())
	require.Equal(t, "GET /new", spans[1].Name())
}
