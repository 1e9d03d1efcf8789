package cli

import (
	"context"
	"fmt"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/backend"
	"expense-tracker/internal/config"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/services"
	"expense-tracker/internal/store"
)

// NewExpenseService opens the configured store, connects the event publisher
// when AMQP is configured and loads the records. Closing the service
// releases both.
//
// A broker that cannot be reached at startup disables events for the
// session instead of failing it; recording never depends on the mirror.
func NewExpenseService(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*services.ExpenseService, error) {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", backendCfg.Type, err)
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.WithComponent(applog.ComponentAMQP).Warn("AMQP unavailable, recorded expenses will not be mirrored",
				applog.FieldError, err)
		} else {
			publisher = client
		}
	}

	var opts []services.Option
	if seeds := store.ReadSeedFile(cfg.SeedCategoriesFile); len(seeds) > 0 {
		opts = append(opts, services.WithSeedCategories(seeds))
	}

	svc, err := services.NewExpenseService(ctx, result.Store, publisher, logger, opts...)
	if err != nil {
		_ = result.Close()
		if c, ok := publisher.(*amqp.Client); ok {
			_ = c.Close()
		}
		return nil, err
	}
	logger.Info("Expense service ready",
		applog.FieldOperation, applog.OpStartup,
		applog.FieldBackend, string(backendCfg.Type),
		applog.FieldRecords, svc.Len(),
		"events", publisher != nil)
	return svc, nil
}
