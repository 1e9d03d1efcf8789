// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/expenses, cmd/expenses-web and cmd/expense-mirror.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expense-tracker/internal/config"
	applog "expense-tracker/internal/log"
)

// SetupLogger initializes structured logging writing to out at the level
// named by LOG_LEVEL, falling back to fallback when the variable is unset.
// The logger is also installed as the slog default.
func SetupLogger(out io.Writer, fallback string) *applog.Logger {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = fallback
	}
	cfg := applog.DefaultConfig()
	cfg.Output = out
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
	}()
	return ctx, stop
}
