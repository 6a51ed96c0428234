// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/wsprobe/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/wsprobe/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/wsprobe/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import "log/slog"

// Build-time variables (set via ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns a formatted version string.
func String() string {
	return "wsprobe " + Version + " (" + Commit + ") built " + BuildTime
}

// LogAttr groups the build info for a startup log line.
func LogAttr() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("built", BuildTime),
	)
}
