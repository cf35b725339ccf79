// cmd/jobmindr-api/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jobmindr/internal/api"
	"jobmindr/internal/common/config"
	"jobmindr/internal/common/database"
	apperrors "jobmindr/internal/common/errors"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/common/observability"
	"jobmindr/internal/handlers/applications"
	"jobmindr/internal/handlers/health"
	"jobmindr/internal/handlers/login"
	"jobmindr/internal/repository"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
		"env":     cfg.App.Environment,
	})
	zapLog.Info("Starting jobmindr API...")

	obs := observability.NewNoop()
	if cfg.Observability.MetricsEnabled {
		obs = observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint, log)
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.AutoMigrate {
		if err := pg.Migrate(ctx); err != nil {
			zapLog.Fatal("schema migration failed", zap.Error(err))
		}
		zapLog.Info("Schema migration applied")
	}

	var store repository.Store = repository.NewPostgresRepository(repository.NewConfig(cfg), pg.DB, log)
	readiness := map[string]health.Pinger{"postgres": pg}

	// --- Init Redis (optional) ---
	if cfg.Cache.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, list cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			store = repository.NewCachedStore(store, rdb.Client, repository.NewCacheConfig(cfg), log)
			readiness["redis"] = rdb
			zapLog.Info("Redis list cache enabled")
		}
	}

	// --- HTTP Server ---
	errs := apperrors.NewErrorHandler(log)
	server := api.NewServer(cfg.Server, obs, errs, log)
	server.Mount(
		applications.NewHandler(&applications.Config{
			RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
		}, store, errs, log),
		login.NewHandler(errs, log),
	)
	server.MountRoot(health.NewHandler(readiness, 2*time.Second, log))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Run()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during HTTP shutdown", zap.Error(err))
	}

	zapLog.Info("jobmindr API stopped gracefully")
}
