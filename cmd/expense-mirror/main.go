// Command expense-mirror appends every recorded expense announced on the
// message broker to a Google Sheets tab.
package main

import (
	"os"

	"golang.org/x/sync/errgroup"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/backend"
	"expense-tracker/internal/cli"
	applog "expense-tracker/internal/log"
	gsheet "expense-tracker/internal/sheets/google"
	"expense-tracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Stdout, "info")
	logger.Info("Starting expense-mirror")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cfg.ValidateMirror(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	sheetsClient, err := gsheet.NewWithServiceAccount(ctx, backendCfg.SheetsOptions(), logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirror := worker.NewMirrorWorker(sheetsClient, 0, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mirror.Run(gctx, amqpClient)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("expense-mirror stopped")
}
