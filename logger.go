package quest

import (
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogRedirect(from, to string, status int)
	LogSuppressedError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogRedirect(from, to string, status int) {
	l.Logger.Printf("quest: following %d redirect from %s to %s", status, from, to)
}

func (l stdLogger) LogSuppressedError(err error) {
	l.Logger.Printf("quest: suppressed error after stream was destroyed: %s", err)
}

// NewStdLogger logs through a standard library logger.
func NewStdLogger(l *log.Logger) Logger {
	return stdLogger{l}
}

type nopLogger struct{}

func (nopLogger) LogRedirect(string, string, int) {}
func (nopLogger) LogSuppressedError(error)        {}

type TestLogger struct {
	tb testing.TB

	NumLogRedirect        int64
	NumLogSuppressedError int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogRedirect(from, to string, status int) {
	atomic.AddInt64(&l.NumLogRedirect, 1)
	l.tb.Logf("quest: following %d redirect from %s to %s", status, from, to)
}

func (l *TestLogger) LogSuppressedError(err error) {
	atomic.AddInt64(&l.NumLogSuppressedError, 1)
	l.tb.Logf("quest: suppressed error after stream was destroyed: %s", err)
}

// Redirects returns how many redirects were logged so far.
func (l *TestLogger) Redirects() int64 { return atomic.LoadInt64(&l.NumLogRedirect) }

// SuppressedErrors returns how many suppressed errors were logged so far.
func (l *TestLogger) SuppressedErrors() int64 { return atomic.LoadInt64(&l.NumLogSuppressedError) }

var _ Logger = &TestLogger{}
