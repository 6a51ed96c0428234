// Package page is the bootstrap that composes a connection handle from
// configuration. Callers import it directly; nothing is published through a
// shared namespace.
package page

import (
	"context"
	"log/slog"

	"github.com/rickgao/wsprobe/internal/config"
	"github.com/rickgao/wsprobe/internal/connection"
)

// Page owns one connection handle.
type Page struct {
	handle *connection.Handle
}

// New builds a page whose handle starts dialing cfg.Endpoint.URL at once.
// A nil observer logs lifecycle events to logger.
func New(ctx context.Context, cfg *config.ProbeConfig, transport connection.Transport, observer connection.Observer, logger *slog.Logger) *Page {
	return &Page{
		handle: connection.NewHandle(ctx, connection.HandleConfig{URL: cfg.Endpoint.URL}, transport, observer, logger),
	}
}

// NewTransport builds the transport backend selected by cfg.
func NewTransport(cfg *config.ProbeConfig) (connection.Transport, error) {
	return connection.NewTransport(connection.TransportConfig{
		Backend:          cfg.Transport.Backend,
		HandshakeTimeout: cfg.Endpoint.HandshakeTimeout,
		ReadLimit:        cfg.Endpoint.ReadLimit,
	})
}

// Run delegates to the handle; it only logs.
func (p *Page) Run() {
	p.handle.Run()
}

// Wait blocks until the connection has closed or ctx is done.
func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.handle.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle exposes the underlying handle for inspection.
func (p *Page) Handle() *connection.Handle {
	return p.handle
}
