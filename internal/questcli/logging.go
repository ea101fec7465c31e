package questcli

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger that writes JSON to the error stream at the configured level.
func NewLogger(cfg Config, streams Streams) *zap.Logger {
	out := streams.Err
	if out == nil {
		out = io.Discard
	}

	ecfg := zap.NewProductionEncoderConfig()
	ecfg.TimeKey = "timestamp"
	ecfg.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.Lock(zapcore.AddSync(out))
	core := zapcore.NewCore(zapcore.NewJSONEncoder(ecfg), sink, zap.NewAtomicLevelAt(cfg.LogLevel))
	return zap.New(core, zap.ErrorOutput(sink), zap.AddCaller())
}
