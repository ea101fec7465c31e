package questcli

import (
	"context"
	"io"

	"github.com/advdv/quest"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Streams are where the command reads its input and writes its output.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// App wraps an fx.App that assembles the client from the configuration.
type App struct {
	app *fx.App

	Client *quest.Client
	Logger *zap.Logger
}

// NewApp creates the application. Additional fx options may replace or decorate any of the provided components.
func NewApp(cfg Config, streams Streams, opts ...fx.Option) *App {
	a := &App{}

	baseOpts := make([]fx.Option, 0, 8+len(opts))
	baseOpts = append(baseOpts, []fx.Option{
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Supply(streams),
		fx.Provide(NewLogger),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewClient),
		fx.Populate(&a.Client, &a.Logger),
	}...)

	a.app = fx.New(append(baseOpts, opts...)...)
	return a
}

// Err returns the error, if any, that occurred while assembling the application.
func (a *App) Err() error {
	return a.app.Err()
}

// Start runs the start hooks.
func (a *App) Start(ctx context.Context) error {
	return a.app.Start(ctx)
}

// Stop runs the stop hooks, flushing pending spans.
func (a *App) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

// NewClient creates the client that the command issues its request with.
func NewClient(
	cfg Config, logs *zap.Logger, tp trace.TracerProvider, prop propagation.TextMapPropagator,
) *quest.Client {
	opts := []quest.Option{
		quest.WithLogger(quest.NewZapLogger(logs)),
		quest.WithMaxRedirects(cfg.MaxRedirects),
		quest.WithTracing(tp, prop),
	}

	if cfg.Socket != "" {
		return quest.Sock(cfg.Socket, opts...)
	}

	return quest.New(opts...)
}
