// Command expenses records one expense from the terminal and shows the
// overall or a monthly spending summary.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"expense-tracker/internal/cli"
	"expense-tracker/internal/collector"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/present"
)

func main() {
	cli.LoadEnvFile()

	// Log to stderr at warn so prompts stay readable.
	logger := cli.SetupLogger(os.Stderr, "warn")
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	svc, err := cli.NewExpenseService(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open expense records", applog.FieldError, err)
		os.Exit(1)
	}

	session := &cli.Session{
		Service:   svc,
		Prompter:  collector.New(os.Stdin, os.Stdout),
		Presenter: present.New(os.Stdout, cfg.Currency),
		Out:       os.Stdout,
		ChartDir:  cfg.ChartDir,
	}
	runErr := session.Run(ctx)

	if err := svc.Close(); err != nil {
		logger.Warn("Close failed", applog.FieldError, err)
	}
	if runErr != nil {
		if errors.Is(runErr, io.ErrUnexpectedEOF) {
			fmt.Fprintln(os.Stderr, session.EndedEarlyMessage())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		}
		os.Exit(1)
	}
}
