package main

import (
	"context"
	"errors"
	"os"

	"relatoriomei/internal/amqp"
	"relatoriomei/internal/cli"
	"relatoriomei/internal/log"
	"relatoriomei/internal/sheets"
	gsheet "relatoriomei/internal/sheets/google"
	mem "relatoriomei/internal/sheets/memory"
	"relatoriomei/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting relatorio-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required by the worker")
		os.Exit(1)
	}
	if cfg.DataBackend == "memory" {
		logger.Warn("Memory backend cannot see the web process writes; only the startup resync has data")
	}

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	// The worker only reads the slot and never publishes, so no listener.
	st, backendRes := cli.OpenStore(ctx, logger, cfg)
	defer backendRes.Close()

	var publisher sheets.ReportPublisher
	if cfg.SheetsEnabled() {
		client, err := gsheet.NewFromConfig(ctx, cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		publisher = client
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		publisher = mem.New()
		logger.Warn("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided; writing to an in-memory sheet")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(st, publisher, cfg.ResyncConcurrency, logger)

	// Catch up on anything missed while the worker was down.
	if n, err := syncWorker.ResyncAll(ctx); err != nil {
		logger.Error("Startup resync failed", log.FieldError, err, log.FieldCount, n)
	} else {
		logger.Info("Startup resync complete", log.FieldCount, n)
	}

	if err := amqpClient.ConsumeReportSync(ctx, syncWorker.HandleSyncMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
