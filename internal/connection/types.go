package connection

import (
	"errors"
	"log/slog"
	"strconv"
	"time"
)

// EndpointURL is the notifier endpoint a handle dials when no URL is configured.
const EndpointURL = "ws://localhost:8083/ws"

// Close codes reported on CloseEvent (RFC 6455 section 7.4.1).
const (
	CloseNormalClosure   = 1000
	CloseGoingAway       = 1001
	CloseNoStatus        = 1005
	CloseAbnormalClosure = 1006
)

// Errors
var (
	ErrUnknownBackend = errors.New("unknown transport backend")
)

// State is the lifecycle state of a Handle.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// MessageType distinguishes text and binary frames.
type MessageType int

const (
	MessageText MessageType = iota + 1
	MessageBinary
)

func (t MessageType) String() string {
	if t == MessageBinary {
		return "binary"
	}
	return "text"
}

// CloseError is returned by Conn.Read when the peer sent a close frame.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return "websocket closed: " + closeCodeText(e.Code)
	}
	return "websocket closed: " + closeCodeText(e.Code) + ": " + e.Reason
}

func closeCodeText(code int) string {
	switch code {
	case CloseNormalClosure:
		return "normal closure"
	case CloseGoingAway:
		return "going away"
	case CloseNoStatus:
		return "no status"
	case CloseAbnormalClosure:
		return "abnormal closure"
	default:
		return "code " + strconv.Itoa(code)
	}
}

// OpenEvent is delivered once the handshake completes.
type OpenEvent struct {
	URL string
	At  time.Time
}

// LogValue implements slog.LogValuer.
func (e OpenEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", e.URL),
		slog.Time("at", e.At),
	)
}

// MessageEvent carries one inbound frame, untouched.
type MessageEvent struct {
	Type       MessageType
	Data       []byte
	ReceivedAt time.Time
}

// CloseEvent is delivered exactly once per handle, for clean closes and
// failures alike.
type CloseEvent struct {
	Code   int
	Reason string
	Clean  bool
	Err    error // Transport error, nil for a close frame from the peer
	At     time.Time
}

// LogValue implements slog.LogValuer.
func (e CloseEvent) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("code", e.Code),
		slog.Bool("clean", e.Clean),
		slog.Time("at", e.At),
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// HandleConfig configures a Handle.
type HandleConfig struct {
	URL string // WebSocket URL, EndpointURL when empty
}

// DefaultHandleConfig returns the fixed local endpoint.
func DefaultHandleConfig() HandleConfig {
	return HandleConfig{
		URL: EndpointURL,
	}
}

// TransportConfig configures a Transport backend.
type TransportConfig struct {
	Backend          string        // "gorilla" or "coder"
	HandshakeTimeout time.Duration // Upper bound on the opening handshake
	ReadLimit        int64         // Max inbound frame size in bytes (0 = library default)
}

// Transport backends.
const (
	BackendGorilla = "gorilla"
	BackendCoder   = "coder"
)

// DefaultTransportConfig returns sensible defaults.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Backend:          BackendGorilla,
		HandshakeTimeout: 10 * time.Second,
		ReadLimit:        1 << 20,
	}
}

// HandleStats is a point-in-time view of a Handle.
type HandleStats struct {
	ID               string
	URL              string
	State            State
	MessagesReceived int64
	BytesReceived    int64
	OpenedAt         time.Time // Zero if the handshake never completed
	ClosedAt         time.Time // Zero while not closed
}
