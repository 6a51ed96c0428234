package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// logCapture is a slog.Handler that records the message of every Info+ record.
type logCapture struct {
	mu       sync.Mutex
	messages []string
}

func newLogCapture() (*slog.Logger, *logCapture) {
	c := &logCapture{}
	return slog.New(c), c
}

func (c *logCapture) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (c *logCapture) Handle(_ context.Context, r slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, r.Message)
	return nil
}

func (c *logCapture) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *logCapture) WithGroup(string) slog.Handler      { return c }

func (c *logCapture) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *logCapture) Count(msg string) int {
	n := 0
	for _, m := range c.Messages() {
		if m == msg {
			n++
		}
	}
	return n
}

// recordingObserver counts callbacks and flags overlapping invocations.
type recordingObserver struct {
	mu       sync.Mutex
	opened   int
	messages []string
	closes   []CloseEvent

	inFlight atomic.Int32
	overlap  atomic.Bool
}

func (o *recordingObserver) enter() {
	if o.inFlight.Add(1) > 1 {
		o.overlap.Store(true)
	}
}

func (o *recordingObserver) leave() { o.inFlight.Add(-1) }

func (o *recordingObserver) Opened(OpenEvent) {
	o.enter()
	defer o.leave()
	o.mu.Lock()
	o.opened++
	o.mu.Unlock()
}

func (o *recordingObserver) Message(ev MessageEvent) {
	o.enter()
	defer o.leave()
	o.mu.Lock()
	o.messages = append(o.messages, string(ev.Data))
	o.mu.Unlock()
}

func (o *recordingObserver) Closed(ev CloseEvent) {
	o.enter()
	defer o.leave()
	o.mu.Lock()
	o.closes = append(o.closes, ev)
	o.mu.Unlock()
}

func (o *recordingObserver) snapshot() (opened int, messages []string, closes []CloseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opened, append([]string(nil), o.messages...), append([]CloseEvent(nil), o.closes...)
}

var errFakeClosed = errors.New("fake connection closed")

// fakeTransport hands out in-memory connections driven by the test.
type fakeTransport struct {
	mu    sync.Mutex
	dials []string
	gate  chan struct{} // Dial blocks until closed, when non-nil
	err   error         // Returned by Dial, when non-nil

	conns chan *fakeConn
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{conns: make(chan *fakeConn, 16)}
}

func (t *fakeTransport) Dial(ctx context.Context, url string) (Conn, error) {
	t.mu.Lock()
	t.dials = append(t.dials, url)
	gate, err := t.gate, t.err
	t.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	c := &fakeConn{
		frames: make(chan fakeFrame),
		closed: make(chan struct{}),
	}
	t.conns <- c
	return c, nil
}

func (t *fakeTransport) Dials() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.dials...)
}

// nextConn waits for the connection produced by the next successful Dial.
func (t *fakeTransport) nextConn(tb testing.TB) *fakeConn {
	tb.Helper()
	select {
	case c := <-t.conns:
		return c
	case <-time.After(time.Second):
		tb.Fatal("timeout waiting for dial")
		return nil
	}
}

type fakeFrame struct {
	typ  MessageType
	data []byte
	err  error
}

// fakeConn delivers frames synchronously: a push returns once the handle has
// read the frame, or false once the connection is closed.
type fakeConn struct {
	frames    chan fakeFrame
	closed    chan struct{}
	closeOnce sync.Once
	closes    atomic.Int32
}

func (c *fakeConn) Read(ctx context.Context) (MessageType, []byte, error) {
	select {
	case f := <-c.frames:
		if f.err != nil {
			return 0, nil, f.err
		}
		return f.typ, f.data, nil
	case <-c.closed:
		return 0, nil, errFakeClosed
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) push(f fakeFrame) bool {
	select {
	case c.frames <- f:
		return true
	case <-c.closed:
		return false
	case <-time.After(time.Second):
		return false
	}
}

func (c *fakeConn) PushText(s string) bool {
	return c.push(fakeFrame{typ: MessageText, data: []byte(s)})
}

func (c *fakeConn) PushBinary(b []byte) bool {
	return c.push(fakeFrame{typ: MessageBinary, data: b})
}

func (c *fakeConn) CloseRemote(code int, reason string) bool {
	return c.push(fakeFrame{err: &CloseError{Code: code, Reason: reason}})
}

func (c *fakeConn) Fail(err error) bool {
	return c.push(fakeFrame{err: err})
}

func waitFor(tb testing.TB, what string, cond func() bool) {
	tb.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	tb.Fatalf("timeout waiting for %s", what)
}

func waitDone(tb testing.TB, h *Handle) {
	tb.Helper()
	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		tb.Fatalf("timeout waiting for handle %s to close", h.ID())
	}
}
