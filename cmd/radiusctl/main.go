// radiusctl is a command-line RADIUS client (RFC 2865/2866/5997).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lp-radius/goradius/cmd/radiusctl/commands"
	"github.com/lp-radius/goradius/internal/config"
	"github.com/lp-radius/goradius/internal/radiusmetrics"
)

// shutdownTimeout bounds how long the metrics server is given to drain
// active connections before the process exits.
const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a YAML configuration file (optional)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics listen address, e.g. :9100 (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	level := new(slog.LevelVar)
	level.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLoggerWithLevel(cfg.Log, level)
	slog.SetDefault(logger)

	commands.ApplyConfig(cfg)

	reg := prometheus.NewRegistry()
	commands.SetMetricsCollector(radiusmetrics.NewCollector(reg))

	var stopMetrics func()
	if cfg.Metrics.Addr != "" {
		srv := newMetricsServer(cfg.Metrics, reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		stopMetrics = func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("metrics server shutdown", "error", err)
			}
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		if stopMetrics != nil {
			stopMetrics()
		}
	}()

	commands.Execute()
	if stopMetrics != nil {
		stopMetrics()
	}
	return 0
}

// loadConfig loads a YAML config if path is non-empty, otherwise returns
// config.DefaultConfig(). Unlike the daemon's loader, validation is
// deferred to the CLI's own flag checks since a config file is optional
// here (host/secret are as commonly supplied via flags).
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}

	k := config.DefaultConfig()
	loaded, err := config.Load(path)
	if err != nil {
		// Validate() rejects a config file that omits host/secret, which is
		// a normal case for radiusctl (they are commonly passed as flags).
		// Fall back to defaults layered with whatever partial values parsed.
		if errors.Is(err, config.ErrEmptyHost) || errors.Is(err, config.ErrEmptySecret) {
			return k, nil
		}
		return nil, fmt.Errorf("load config from %s: %w", path, err)
	}
	return loaded, nil
}

// newMetricsServer creates an HTTP server exposing Prometheus metrics.
func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// newLoggerWithLevel creates a structured logger using a shared LevelVar,
// mirroring the daemon's dynamic-level logging setup.
func newLoggerWithLevel(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
