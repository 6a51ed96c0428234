package config

import (
	"time"

	"github.com/rickgao/wsprobe/internal/connection"
)

// Default values for optional configuration fields.
const (
	DefaultURL              = connection.EndpointURL
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultReadLimit        = 1 << 20
	DefaultBackend          = connection.BackendGorilla
	DefaultCount            = 1
	DefaultLogLevel         = "debug"
	DefaultLogFormat        = "text"
)

func (c *ProbeConfig) applyDefaults() {
	// Endpoint defaults
	if c.Endpoint.URL == "" {
		c.Endpoint.URL = DefaultURL
	}
	if c.Endpoint.HandshakeTimeout == 0 {
		c.Endpoint.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Endpoint.ReadLimit == 0 {
		c.Endpoint.ReadLimit = DefaultReadLimit
	}

	if c.Transport.Backend == "" {
		c.Transport.Backend = DefaultBackend
	}

	if c.Probe.Count == 0 {
		c.Probe.Count = DefaultCount
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
