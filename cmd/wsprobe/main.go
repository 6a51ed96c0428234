// wsprobe opens WebSocket connections to the konserver notifier endpoint and
// logs their lifecycle (open, every inbound frame, close) to the console.
// Usage: go run ./cmd/wsprobe [--config configs/wsprobe.example.yaml] [--count 3]
//
// Without a config file the probe dials ws://localhost:8083/ws once.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/wsprobe/internal/config"
	"github.com/rickgao/wsprobe/internal/page"
	"github.com/rickgao/wsprobe/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	count := flag.Int("count", 0, "number of connections to open; 0 keeps probe.count, negative values are rejected")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load config
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := applyCount(cfg, *count); err != nil {
		slog.Error("invalid flag", "error", err)
		os.Exit(2)
	}

	// Setup logger
	logger, err := newLogger(cfg.Log, os.Stdout)
	if err != nil {
		slog.Error("failed to create logger", "error", err)
		os.Exit(1)
	}
	logger.Info("wsprobe starting", version.LogAttr(),
		"url", cfg.Endpoint.URL,
		"backend", cfg.Transport.Backend,
		"count", cfg.Probe.Count,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("probe failed", "error", err)
		os.Exit(1)
	}
}

// run opens cfg.Probe.Count pages and blocks until every connection has
// closed or a shutdown signal arrives.
func run(cfg *config.ProbeConfig, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return probe(ctx, cfg, logger)
}

func probe(ctx context.Context, cfg *config.ProbeConfig, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	transport, err := page.NewTransport(cfg)
	if err != nil {
		return fmt.Errorf("create transport: %w", err)
	}

	pages := make([]*page.Page, cfg.Probe.Count)
	for i := range pages {
		pages[i] = page.New(ctx, cfg, transport, nil, logger)
		pages[i].Run()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range pages {
		g.Go(func() error {
			return p.Wait(gctx)
		})
	}
	// Page.Wait only fails once the probe context is done.
	if err := g.Wait(); err != nil {
		logger.Info("probe interrupted", "reason", err)
	}

	// Graceful shutdown: tear down whatever is still open and wait for the
	// close events to be logged.
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, p := range pages {
		h := p.Handle()
		if err := p.Wait(shutdownCtx); err != nil {
			logger.Warn("connection did not close in time", "handle_id", h.ID(), "error", err)
			continue
		}
		st := h.Stats()
		logger.Debug("connection stats",
			"handle_id", st.ID,
			"state", st.State.String(),
			"messages", st.MessagesReceived,
			"bytes", st.BytesReceived,
		)
	}

	logger.Info("shutdown complete")
	return nil
}

// applyCount overrides probe.count with the -count flag. Zero means unset.
func applyCount(cfg *config.ProbeConfig, count int) error {
	if count < 0 {
		return fmt.Errorf("-count must be >= 0, got %d", count)
	}
	if count > 0 {
		cfg.Probe.Count = count
	}
	return nil
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
}
