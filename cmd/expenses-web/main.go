// Command expenses-web serves the expense form and spending summaries.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expense-tracker/internal/cache"
	"expense-tracker/internal/cli"
	apphttp "expense-tracker/internal/http"
	applog "expense-tracker/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Stdout, "info")
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	svc, err := cli.NewExpenseService(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize expense service", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("Close failed", applog.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, svc, logger, apphttp.Options{Currency: cfg.Currency})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	cacheManager := cache.NewManager(logger)
	for _, c := range srv.Cleaners() {
		cacheManager.Register(c)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting expense server", "port", cfg.Port, applog.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return cacheManager.Run(gctx, 10*time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
