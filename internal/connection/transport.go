package connection

import (
	"context"
	"fmt"
)

// Transport opens WebSocket connections.
type Transport interface {
	// Dial performs the opening handshake against url.
	Dial(ctx context.Context, url string) (Conn, error)
}

// Conn is one open WebSocket connection, read side only.
type Conn interface {
	// Read blocks until the next data frame arrives. A close frame from the
	// peer is reported as *CloseError.
	Read(ctx context.Context) (MessageType, []byte, error)

	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// NewTransport returns the backend named by cfg.Backend.
func NewTransport(cfg TransportConfig) (Transport, error) {
	switch cfg.Backend {
	case "", BackendGorilla:
		return NewGorillaTransport(cfg), nil
	case BackendCoder:
		return NewCoderTransport(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
