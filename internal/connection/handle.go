package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Handle owns exactly one WebSocket connection and reports its lifecycle to
// an Observer. The connection attempt starts as soon as the handle is built;
// there is no reconnect, no send path and no explicit close. Cancelling the
// owning context tears the connection down.
type Handle struct {
	id        uuid.UUID
	cfg       HandleConfig
	transport Transport
	observer  Observer
	logger    *slog.Logger

	done chan struct{}

	// Counters
	messages atomic.Int64
	bytes    atomic.Int64

	// State
	mu       sync.RWMutex
	state    State
	openedAt time.Time
	closedAt time.Time
}

// NewHandle registers observer and starts dialing cfg.URL through transport.
// It never blocks and never fails: an unreachable endpoint surfaces later as
// the closed event. A nil observer logs every event to logger.
func NewHandle(ctx context.Context, cfg HandleConfig, transport Transport, observer Observer, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" {
		cfg.URL = EndpointURL
	}

	id := uuid.New()
	logger = logger.With("handle_id", id.String(), "url", cfg.URL)
	if observer == nil {
		observer = NewLogObserver(logger)
	}

	h := &Handle{
		id:        id,
		cfg:       cfg,
		transport: transport,
		observer:  observer,
		logger:    logger,
		done:      make(chan struct{}),
		state:     StateConnecting,
	}

	// Observer is in place before the event loop can dispatch anything.
	go h.eventLoop(ctx)

	return h
}

// ID returns the handle's identifier.
func (h *Handle) ID() string {
	return h.id.String()
}

// URL returns the endpoint this handle dials.
func (h *Handle) URL() string {
	return h.cfg.URL
}

// Run only logs a fixed line. It does not touch the connection.
func (h *Handle) Run() {
	h.logger.Info("run...")
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Done is closed after the closed observer has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stats returns current counters and timestamps.
func (h *Handle) Stats() HandleStats {
	h.mu.RLock()
	state, openedAt, closedAt := h.state, h.openedAt, h.closedAt
	h.mu.RUnlock()

	return HandleStats{
		ID:               h.id.String(),
		URL:              h.cfg.URL,
		State:            state,
		MessagesReceived: h.messages.Load(),
		BytesReceived:    h.bytes.Load(),
		OpenedAt:         openedAt,
		ClosedAt:         closedAt,
	}
}

// eventLoop is the only goroutine that invokes the observer, so callbacks
// never run concurrently.
func (h *Handle) eventLoop(ctx context.Context) {
	defer close(h.done)

	h.logger.Debug("websocket connecting")

	conn, err := h.transport.Dial(ctx, h.cfg.URL)
	if err != nil {
		h.logger.Debug("websocket dial failed", "error", err)
		h.dispatchClosed(ctx, err)
		return
	}

	// Unblocks a Read that does not honor ctx.
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	h.dispatchOpened()

	for {
		typ, data, err := conn.Read(ctx)
		receivedAt := time.Now()

		if err != nil {
			if cerr := conn.Close(); cerr != nil {
				h.logger.Debug("websocket close", "error", cerr)
			}
			h.dispatchClosed(ctx, err)
			return
		}

		h.dispatchMessage(MessageEvent{
			Type:       typ,
			Data:       data,
			ReceivedAt: receivedAt,
		})
	}
}

func (h *Handle) dispatchOpened() {
	now := time.Now()

	h.mu.Lock()
	h.state = StateOpen
	h.openedAt = now
	h.mu.Unlock()

	h.observer.Opened(OpenEvent{URL: h.cfg.URL, At: now})
}

func (h *Handle) dispatchMessage(ev MessageEvent) {
	if h.State() != StateOpen {
		return
	}

	h.messages.Add(1)
	h.bytes.Add(int64(len(ev.Data)))

	h.observer.Message(ev)
}

func (h *Handle) dispatchClosed(ctx context.Context, err error) {
	ev := closeEventFor(ctx, err)

	h.mu.Lock()
	if h.state == StateClosed {
		h.mu.Unlock()
		return
	}
	h.state = StateClosed
	h.closedAt = ev.At
	h.mu.Unlock()

	h.observer.Closed(ev)
}

// closeEventFor folds every way a connection can end into one CloseEvent.
func closeEventFor(ctx context.Context, err error) CloseEvent {
	ev := CloseEvent{At: time.Now()}

	var ce *CloseError
	switch {
	case errors.As(err, &ce):
		ev.Code = ce.Code
		ev.Reason = ce.Reason
		// 1006 is never sent on the wire; libraries use it for a dropped connection.
		ev.Clean = ce.Code != CloseAbnormalClosure
		if !ev.Clean {
			ev.Err = err
		}
	case ctx.Err() != nil:
		ev.Code = CloseGoingAway
		ev.Reason = ctx.Err().Error()
		ev.Clean = true
	default:
		ev.Code = CloseAbnormalClosure
		ev.Err = err
	}

	return ev
}
