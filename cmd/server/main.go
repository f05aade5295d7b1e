/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the depreciation projection server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (optional) and environment configuration
  2. Build the zerolog logger
  3. Initialize SQLite store
  4. Create API handler, metrics and router
  5. Start the snapshot scheduler
  6. Start server with graceful shutdown

ENVIRONMENT:
  See config/config.go. The common ones:
    HTTP_PORT          Listen port (default: 8080)
    DATABASE_PATH      SQLite file, or ":memory:" (default: ./data/depreciation.db)
    LOG_LEVEL          debug, info, warn, error (default: info)
    LOG_FORMAT         json or console (default: json)
    PROJECTION_YEARS   Default projection length (default: 10)
    SNAPSHOT_ENABLED   Background snapshots (default: true)
    SNAPSHOT_PERSIST   Store snapshots in SQLite rather than memory (default: true)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the snapshot scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (HTTP_SHUTDOWN_TIMEOUT)
  4. Close database connection

EXAMPLES:
  # Run with in-memory database and readable logs
  DATABASE_PATH=":memory:" LOG_FORMAT=console ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Snapshot scheduler
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/warp/depreciation-engine/api"
	"github.com/warp/depreciation-engine/config"
	snapshots "github.com/warp/depreciation-engine/generic/store"
	"github.com/warp/depreciation-engine/logger"
	"github.com/warp/depreciation-engine/metrics"
	"github.com/warp/depreciation-engine/store/sqlite"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Config{Level: "info", Format: "console"})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("ignoring unreadable .env file")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	// Initialize store
	if cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
			return err
		}
	}
	store, err := sqlite.New(cfg.DatabasePath, sqlite.WithLogger(log))
	if err != nil {
		return err
	}
	defer store.Close()
	log.Info().Str("path", cfg.DatabasePath).Msg("database ready")

	// Initialize handler
	m := metrics.New(prometheus.DefaultRegisterer)
	handler := api.NewHandler(store, m, log)
	handler.ProjectionYears = cfg.ProjectionYears
	if !cfg.SnapshotPersist {
		handler.Snapshots = snapshots.NewMemory()
		log.Info().Msg("projection snapshots kept in memory")
	}

	router := api.NewRouter(handler, api.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Gatherer:       prometheus.DefaultGatherer,
	})

	// Snapshot scheduler
	scheduler := api.NewSnapshotScheduler(handler)
	scheduler.Enabled = cfg.SnapshotEnabled
	scheduler.CheckInterval = cfg.SnapshotInterval
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server...")
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
