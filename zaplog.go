package quest

import "go.uber.org/zap"

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogRedirect(from, to string, status int) {
	l.Logger.Debug("following redirect",
		zap.Int("status", status),
		zap.String("from", from),
		zap.String("to", to))
}

func (l zapLogger) LogSuppressedError(err error) {
	l.Logger.Debug("suppressed error after stream was destroyed", zap.Error(err))
}

// NewZapLogger logs through l, named "quest".
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("quest")}
}
