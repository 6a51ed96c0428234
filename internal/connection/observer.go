package connection

import (
	"encoding/hex"
	"log/slog"
)

// Observer receives a handle's lifecycle events. Calls are never concurrent
// for one handle: Opened at most once, then Message in wire order, then
// Closed exactly once.
type Observer interface {
	Opened(ev OpenEvent)
	Message(ev MessageEvent)
	Closed(ev CloseEvent)
}

// LogObserver writes every event to a logger. Text payloads are logged
// verbatim as the record message and never decoded. Binary payloads may not
// be valid UTF-8, so they are logged hex-encoded under "data_hex".
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Opened(ev OpenEvent) {
	o.logger.Info("ws open", "event", ev)
}

func (o *LogObserver) Message(ev MessageEvent) {
	if ev.Type == MessageBinary {
		o.logger.Info("ws binary",
			"bytes", len(ev.Data),
			"data_hex", hex.EncodeToString(ev.Data),
		)
		return
	}
	o.logger.Info(string(ev.Data))
}

func (o *LogObserver) Closed(ev CloseEvent) {
	o.logger.Info("ws close", "event", ev)
}
