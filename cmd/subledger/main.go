package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"subledger/internal/cli"
	apphttp "subledger/internal/http"
	"subledger/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	window, err := cli.RenewalWindow(cfg)
	if err != nil {
		logger.Error("Invalid renewal mode", log.FieldError, err)
		os.Exit(1)
	}

	publisher := cli.ConnectPublisher(logger.WithComponent(log.ComponentAMQP), cfg)
	store, cleanup, err := cli.OpenLedger(context.Background(), logger, cfg, publisher)
	if err != nil {
		logger.Error("Failed to open ledger", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer cleanup()

	srv, err := apphttp.NewServer(":"+cfg.Port, store, window, logger,
		apphttp.WithAllowedOrigins(cfg.CORSAllowedOrigins))
	if err != nil {
		logger.Error("Failed to create server", log.FieldError, err)
		os.Exit(1)
	}
	defer srv.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting subledger server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		log.FieldSlot, cfg.Slot,
		"renewal_mode", cfg.RenewalMode,
		"events", publisher != nil,
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
