package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/wayfinder/pkg/config"
	"github.com/odvcencio/wayfinder/pkg/engine"
	"github.com/odvcencio/wayfinder/pkg/layout"
	"github.com/odvcencio/wayfinder/pkg/logging"
	"github.com/odvcencio/wayfinder/pkg/observability"
	"github.com/odvcencio/wayfinder/pkg/telemetry"
	"github.com/odvcencio/wayfinder/ui"
)

func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	layoutPath := fs.String("layout", "layout.yaml", "layout file to navigate")
	configPath := fs.String("config", "", "config file (default: standard locations)")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	traceEnabled := fs.Bool("trace", false, "emit OpenTelemetry spans to stdout on exit")
	metricsDump := fs.Bool("metrics-dump", false, "print the telemetry snapshot on exit")
	watch := fs.Bool("watch", true, "reload the layout when the file changes")
	logPath := fs.String("log", "", "write the engine event log to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	logger, logClose, err := openLogger(cfg, *logPath)
	if err != nil {
		return err
	}
	defer logClose()

	l, err := layout.Load(*layoutPath)
	if err != nil {
		return err
	}

	var tracer *observability.TracerProvider
	if *traceEnabled {
		tracer, err = observability.NewTracerProvider("wayfinder-demo")
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			tracer.Shutdown(shutdownCtx)
		}()
	}

	host := ui.NewHost(l, func(b *ui.Box) {
		logger.Info(logging.CategoryHost, "selected", b.ID(), nil)
	})
	eng := engine.New(engine.Config{Host: host, Settings: cfg, Logger: logger})
	defer eng.Teardown()

	if cfg.AutoRun {
		if err := eng.Start(); err != nil {
			return err
		}
	}
	metricRegions.Set(float64(len(eng.Regions())))

	app := ui.NewApp(ui.AppConfig{
		Host:       host,
		Engine:     eng,
		Logger:     logger,
		LayoutPath: *layoutPath,
		OnCommand: func(name string, moved bool) {
			recordCommand(name, moved, *traceEnabled)
			metricRegions.Set(float64(len(eng.Regions())))
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer stop()
		err := app.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if *metricsAddr != "" {
		g.Go(func() error { return serveMetrics(ctx, *metricsAddr) })
	}

	if *watch {
		g.Go(func() error { return watchLayout(ctx, *layoutPath, app, logger) })
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if *metricsDump {
		if _, err := telemetry.DefaultRegistry.WriteTo(os.Stdout); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// openLogger builds the engine event logger. Logs go to a file when
// asked for; the terminal is owned by tcell, so there is no stderr
// fallback while the demo runs.
func openLogger(cfg *config.Config, override string) (*logging.Logger, func(), error) {
	path := override
	if path == "" {
		path = cfg.Logging.Path
	}
	if path == "" {
		return logging.NewLogger(io.Discard, logging.Level(cfg.Logging.Level)), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.NewLogger(f, logging.Level(cfg.Logging.Level)), func() { f.Close() }, nil
}

func recordCommand(name string, moved bool, traced bool) {
	metricCommands.WithLabelValues(name).Inc()
	if moved {
		metricMoved.WithLabelValues(name).Inc()
	}
	if name == "reload" {
		metricReloads.Inc()
	}
	if traced {
		_, span := observability.StartSpan(context.Background(), "nav.command")
		span.SetAttributes(
			observability.AttrCommand.String(name),
			observability.AttrMoved.Bool(moved),
		)
		span.End()
	}
}

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}

// watchLayout reloads the layout on file changes. Editors often write
// via rename, so the watch covers the file's directory.
func watchLayout(ctx context.Context, path string, app *ui.App, logger *logging.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("layout watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	// Debounce bursts of write events from a single save.
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(100 * time.Millisecond)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn(logging.CategoryHost, "watch_error", err.Error(), nil)
		case <-pending:
			pending = nil
			app.RequestReload()
		}
	}
}
