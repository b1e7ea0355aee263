package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"subledger/internal/amqp"
	"subledger/internal/cli"
	"subledger/internal/log"
	gsheet "subledger/internal/sheets/google"
	"subledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting subledger-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration invalid", log.FieldError, err)
		os.Exit(1)
	}

	window, err := cli.RenewalWindow(cfg)
	if err != nil {
		logger.Error("Invalid renewal mode", log.FieldError, err)
		os.Exit(1)
	}

	// The worker only reads the slot, so no publisher is attached.
	res, err := cli.OpenRepository(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if res.Cleanup != nil {
			_ = res.Cleanup()
		}
	}()

	sheetsClient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	var consumer *amqp.Client
	if cfg.AMQPURL != "" {
		consumer, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.Slot, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer consumer.Close()
	} else {
		logger.Info("AMQP disabled, relying on periodic export only")
	}

	exporter := worker.NewExportWorker(res.Repository, sheetsClient, window, cfg.Slot, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return exporter.RunPeriodic(gctx, cfg.ExportInterval)
	})
	if consumer != nil {
		g.Go(func() error {
			return consumer.ConsumeLedgerChanged(gctx, exporter.HandleLedgerChanged)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
