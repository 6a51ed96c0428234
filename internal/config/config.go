package config

import (
	"log/slog"
	"time"
)

// ProbeConfig is the root configuration for a wsprobe run.
type ProbeConfig struct {
	Endpoint  EndpointConfig  `yaml:"endpoint"`
	Transport TransportConfig `yaml:"transport"`
	Probe     ProbeSettings   `yaml:"probe"`
	Log       LogConfig       `yaml:"log"`
}

// EndpointConfig describes the WebSocket endpoint each handle dials.
type EndpointConfig struct {
	URL              string        `yaml:"url"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	ReadLimit        int64         `yaml:"read_limit"` // Max inbound frame size in bytes
}

// TransportConfig selects the WebSocket library.
type TransportConfig struct {
	Backend string `yaml:"backend"` // "gorilla" or "coder"
}

// ProbeSettings holds run settings.
type ProbeSettings struct {
	Count int `yaml:"count"` // Number of independent handles to open
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}
