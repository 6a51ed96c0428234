package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/rickgao/wsprobe/internal/connection"
)

// Validate checks that all required fields are set and values are valid.
func (c *ProbeConfig) Validate() error {
	if err := c.Endpoint.validate("endpoint"); err != nil {
		return err
	}

	switch c.Transport.Backend {
	case connection.BackendGorilla, connection.BackendCoder:
	default:
		return fmt.Errorf("transport.backend must be %s or %s, got %q",
			connection.BackendGorilla, connection.BackendCoder, c.Transport.Backend)
	}

	if c.Probe.Count < 1 {
		return errors.New("probe.count must be >= 1")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level %q is not a valid level", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (e *EndpointConfig) validate(prefix string) error {
	if e.URL == "" {
		return fmt.Errorf("%s.url is required", prefix)
	}
	u, err := url.Parse(e.URL)
	if err != nil {
		return fmt.Errorf("%s.url: %w", prefix, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%s.url scheme must be ws or wss, got %q", prefix, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s.url host is required", prefix)
	}
	if e.HandshakeTimeout < 0 {
		return fmt.Errorf("%s.handshake_timeout must be >= 0", prefix)
	}
	if e.ReadLimit < 0 {
		return fmt.Errorf("%s.read_limit must be >= 0", prefix)
	}
	return nil
}
