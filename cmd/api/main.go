package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ewilliams-labs/pacer/internal/adapters/catalogapi"
	"github.com/ewilliams-labs/pacer/internal/adapters/csvcatalog"
	"github.com/ewilliams-labs/pacer/internal/adapters/rest"
	"github.com/ewilliams-labs/pacer/internal/adapters/sqlite"
	"github.com/ewilliams-labs/pacer/internal/config"
	"github.com/ewilliams-labs/pacer/internal/core/ports"
	"github.com/ewilliams-labs/pacer/internal/core/services"
	"github.com/ewilliams-labs/pacer/internal/observability"
	"github.com/ewilliams-labs/pacer/internal/telemetry"
	"github.com/ewilliams-labs/pacer/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("FATAL: pacer api stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration
	cfg, err := config.Load(os.Getenv("PACER_CONFIG"))
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	shutdownTracing, err := telemetry.SetupTracing(cfg.Tracing, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("telemetry: shutdown failed", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Driven adapters
	var (
		repo  ports.PlaylistRepository
		store *sqlite.Adapter
	)
	switch cfg.Storage.Driver {
	case "sqlite":
		store, err = sqlite.NewAdapter(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()
		repo = store
	case "postgres":
		return errors.New("postgres driver not yet implemented")
	default:
		return fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	var source ports.CatalogSource
	switch cfg.Catalog.Source {
	case "csv":
		source = &csvcatalog.Source{Path: cfg.Catalog.Path, Logger: logger}
	case "sqlite":
		source = store
	case "remote":
		remote := cfg.Catalog.Remote
		source = catalogapi.NewClient(ctx, catalogapi.Config{
			BaseURL:      remote.BaseURL,
			TokenURL:     remote.TokenURL,
			ClientID:     remote.ClientID,
			ClientSecret: remote.ClientSecret,
			PageSize:     remote.PageSize,
			MaxRetries:   remote.MaxRetries,
			BaseBackoff:  remote.RetryBackoff,
			RateLimit:    remote.RateLimit,
			Logger:       logger,
		})
	default:
		return fmt.Errorf("unknown catalog source: %s", cfg.Catalog.Source)
	}

	catalog, err := source.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if catalog.Len() == 0 {
		logger.Warn("api: catalog is empty, every generation will fail", slog.String("source", cfg.Catalog.Source))
	}

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	// 3. Core service and save-retry workers
	pool := worker.NewPool(repo, cfg.Worker.QueueSize, logger, metrics)
	pool.Start(cfg.Worker.Count)
	defer pool.Stop()

	svc := services.NewGenerator(catalog, repo, services.Config{
		TopN:    cfg.Matching.TopN,
		MaxTopN: cfg.Matching.MaxTopN,
		Workers: cfg.Matching.Workers,
		Queue:   pool,
		Metrics: metrics,
		Logger:  logger,
	})

	// 4. Driving adapter
	handler := rest.NewHandler(svc, promhttp.Handler(), logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	logger.Info("api: pacer is running",
		slog.String("addr", cfg.Server.Addr),
		slog.Int("catalog_tracks", catalog.Len()),
		slog.String("catalog_source", cfg.Catalog.Source))

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("api: shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api: shutdown error", slog.Any("error", err))
		}
	}
	return nil
}
