package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// GorillaTransport dials with github.com/gorilla/websocket.
type GorillaTransport struct {
	cfg TransportConfig
}

// NewGorillaTransport creates a gorilla-backed Transport.
func NewGorillaTransport(cfg TransportConfig) *GorillaTransport {
	return &GorillaTransport{cfg: cfg}
}

// Dial performs the handshake. No sub-protocols and no custom headers are sent.
func (t *GorillaTransport) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: t.cfg.HandshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	if t.cfg.ReadLimit > 0 {
		conn.SetReadLimit(t.cfg.ReadLimit)
	}

	return &gorillaConn{conn: conn}, nil
}

type gorillaConn struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// Read ignores ctx; the handle unblocks it by closing the connection.
func (c *gorillaConn) Read(_ context.Context) (MessageType, []byte, error) {
	typ, data, err := c.conn.ReadMessage()
	if err != nil {
		var ce *websocket.CloseError
		if errors.As(err, &ce) {
			return 0, nil, &CloseError{Code: ce.Code, Reason: ce.Text}
		}
		return 0, nil, err
	}
	if typ == websocket.BinaryMessage {
		return MessageBinary, data, nil
	}
	return MessageText, data, nil
}

func (c *gorillaConn) Close() error {
	c.closeOnce.Do(func() {
		// Best effort; the peer may already be gone.
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
