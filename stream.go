package quest

import (
	"bytes"
	"context"
	"io"
	"iter"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// State is the lifecycle state of a [Stream].
type State int

const (
	StateOpen State = iota
	StateEnded
	StateErrored
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateEnded:
		return "ended"
	case StateErrored:
		return "errored"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// chunkSize is the largest chunk handed out by [Stream.Chunks].
const chunkSize = 32 * 1024

// Stream is the response of a request as a single-consumer byte stream. It is handed out before the response is
// classified: reads block until the status and headers are known ([Stream.Connected]), then relay the body in the
// order it arrives. A stream ends, errors or is destroyed by the consumer with [Stream.Close]; after that no more
// bytes are delivered.
type Stream struct {
	req     *Request
	origin  origin
	logs    Logger
	metrics *Metrics
	cancel  context.CancelFunc

	connected chan struct{}
	done      chan struct{}
	doneOnce  sync.Once

	mu    sync.Mutex
	state State
	res   *Response
	err   error
}

// StreamRequest sends req and returns its response as a stream. Cancelling ctx aborts the request, the stream then
// errors with [TransportCanceled] unless it was closed first.
func (c *Client) StreamRequest(ctx context.Context, req *Request) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		req:       req,
		origin:    origin{method: req.method, url: req.url.String()},
		logs:      c.logs,
		metrics:   c.metrics,
		cancel:    cancel,
		connected: make(chan struct{}),
		done:      make(chan struct{}),
	}

	go s.run(ctx, c)
	return s
}

func (s *Stream) run(ctx context.Context, c *Client) {
	res, err := c.Ok(ctx, s.req)

	s.mu.Lock()
	destroyed := s.state == StateDestroyed
	switch {
	case destroyed:
	case err != nil:
		s.state, s.err = StateErrored, err
	default:
		s.res = res
	}
	s.mu.Unlock()

	close(s.connected)

	switch {
	case destroyed:
		if res != nil {
			_ = res.Body.Close()
		}
		if err != nil && !errors.Is(err, ErrRequestDestroyed) {
			s.suppress(err)
		}
		s.finish()
	case err != nil:
		s.finish()
	}
}

// Connected is closed once the status and headers are known, or once the request failed.
func (s *Stream) Connected() <-chan struct{} { return s.connected }

// Done is closed once the underlying exchange is over, whatever its outcome.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Wait blocks until the stream is connected and returns the classification error, if any.
func (s *Stream) Wait(ctx context.Context) error {
	select {
	case <-s.connected:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.res == nil && s.err != nil {
		return s.err
	}

	return nil
}

// Status returns the response status, or zero before the stream is connected.
func (s *Stream) Status() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.res == nil {
		return 0
	}
	return s.res.StatusCode
}

// Header returns the response headers, or nil before the stream is connected.
func (s *Stream) Header() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.res == nil {
		return nil
	}
	return s.res.Header
}

// Response returns the classified response, or nil when there is none (yet).
func (s *Stream) Response() *Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res
}

// State returns the current lifecycle state.
func (s *Stream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error the stream terminated with, if it errored.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Read implements io.Reader. It returns io.EOF for every read after the stream ended, the classified error after it
// errored and [ErrStreamDestroyed] after it was closed.
func (s *Stream) Read(p []byte) (int, error) {
	<-s.connected

	s.mu.Lock()
	switch s.state {
	case StateEnded:
		s.mu.Unlock()
		return 0, io.EOF
	case StateErrored:
		err := s.err
		s.mu.Unlock()
		return 0, err
	case StateDestroyed:
		s.mu.Unlock()
		return 0, ErrStreamDestroyed
	}
	body := s.res.Body
	s.mu.Unlock()

	n, err := body.Read(p)
	switch {
	case err == nil:
		return n, nil
	case err == io.EOF:
		if !s.terminate(StateEnded, nil) {
			return n, ErrStreamDestroyed
		}
		return n, io.EOF
	default:
		qerr := s.origin.transportError(err)
		if !s.terminate(StateErrored, qerr) {
			s.suppress(qerr)
			return n, ErrStreamDestroyed
		}
		return n, qerr
	}
}

// Chunks iterates over the body as it arrives. Breaking out of the loop destroys the stream. A failure is yielded
// once, as the last element.
func (s *Stream) Chunks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		buf := make([]byte, chunkSize)
		for {
			n, err := s.Read(buf)
			if n > 0 && !yield(bytes.Clone(buf[:n]), nil) {
				_ = s.Close()
				return
			}

			switch {
			case err == io.EOF:
				return
			case err != nil:
				yield(nil, err)
				return
			}
		}
	}
}

// Close destroys the stream: the underlying request is aborted and its connection released. Errors that arrive
// afterwards are not surfaced. Closing a stream that already ended or errored does nothing.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return nil
	}
	s.state = StateDestroyed
	res := s.res
	s.mu.Unlock()

	s.req.Destroy()
	s.cancel()
	if res == nil {
		return nil // run finishes once the classification returns
	}

	res.Request.Destroy()
	_ = res.Body.Close()
	s.finish()
	return nil
}

// terminate moves an open stream into a terminal state and releases the response. It reports false when the stream
// was no longer open.
func (s *Stream) terminate(state State, err error) bool {
	s.mu.Lock()
	if s.state != StateOpen {
		s.mu.Unlock()
		return false
	}
	s.state, s.err = state, err
	res := s.res
	s.mu.Unlock()

	_ = res.Body.Close()
	s.finish()
	return true
}

func (s *Stream) finish() {
	s.doneOnce.Do(func() {
		s.cancel()
		close(s.done)
	})
}

func (s *Stream) suppress(err error) {
	s.logs.LogSuppressedError(err)
	s.metrics.suppressed()
}
