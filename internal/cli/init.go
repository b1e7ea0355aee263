// Package cli provides common CLI initialization utilities shared by
// cmd/subledger, cmd/subledger-worker and cmd/subctl.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"subledger/internal/aggregate"
	"subledger/internal/amqp"
	"subledger/internal/backend"
	"subledger/internal/config"
	"subledger/internal/core"
	"subledger/internal/ledger"
	"subledger/internal/log"
)

// SetupLogger builds the process logger from LOG_LEVEL and installs it as
// the slog default.
func SetupLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(os.Getenv("LOG_LEVEL"))
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// RenewalWindow returns the day-boundary strategy selected by the config.
func RenewalWindow(cfg *config.Config) (aggregate.RenewalWindow, error) {
	return aggregate.WindowForMode(cfg.RenewalMode, cfg.Location())
}

// OpenRepository creates the configured storage backend.
func OpenRepository(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, bcfg)
}

// ConnectPublisher returns an AMQP client when AMQP_URL is set. A broker
// that cannot be reached is logged and the ledger runs without events.
func ConnectPublisher(logger *log.Logger, cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.Slot, logger)
	if err != nil {
		logger.Warn("Failed to initialize AMQP client, continuing without change events", log.FieldError, err)
		return nil
	}
	logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// OpenLedger wires a loaded ledger.Store over the configured backend. The
// returned cleanup closes the backend and the publisher, if any.
func OpenLedger(ctx context.Context, logger *log.Logger, cfg *config.Config, publisher *amqp.Client) (*ledger.Store, func(), error) {
	catalog, err := core.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	res, err := OpenRepository(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if publisher != nil {
			publisher.Close()
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", log.FieldError, err)
			}
		}
	}

	opts := []ledger.Option{ledger.WithCatalog(catalog), ledger.WithLogger(logger)}
	if publisher != nil {
		opts = append(opts, ledger.WithPublisher(publisher))
	}
	store := ledger.New(res.Repository, opts...)
	if err := store.Load(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
