// Package services holds the expense workflow shared by the terminal and
// web front ends.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/store"
)

// EventPublisher announces recorded expenses, e.g. to the spreadsheet mirror.
type EventPublisher interface {
	PublishExpenseRecorded(ctx context.Context, e core.Expense) error
}

// ExpenseService owns the loaded record set. Access is serialised so one
// process can serve concurrent requests; separate processes are not
// coordinated.
type ExpenseService struct {
	mu        sync.RWMutex
	store     store.Store
	records   *core.RecordSet
	seeds     []string
	stored    []string
	publisher EventPublisher
	logger    *applog.Logger
}

// Option customises an ExpenseService.
type Option func(*ExpenseService)

// WithSeedCategories sets the suggestions offered before any record exists.
func WithSeedCategories(seeds []string) Option {
	return func(s *ExpenseService) { s.seeds = store.Dedupe(seeds) }
}

// NewExpenseService loads every record from st. publisher may be nil.
func NewExpenseService(ctx context.Context, st store.Store, publisher EventPublisher, logger *applog.Logger, opts ...Option) (*ExpenseService, error) {
	if st == nil {
		return nil, errors.New("nil store")
	}
	if logger == nil {
		logger = applog.Discard()
	}
	s := &ExpenseService{
		store:     st,
		seeds:     store.DefaultCategories,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentExpense),
	}
	for _, opt := range opts {
		opt(s)
	}

	records, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	s.records = records
	s.logger.InfoContext(ctx, "Records loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldRecords, records.Len())

	// Listed once: later entries go through this service and land in records.
	if lister, ok := st.(store.CategoryLister); ok {
		stored, err := lister.Categories(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to list stored categories", applog.FieldError, err)
		}
		s.stored = stored
	}
	return s, nil
}

// Record validates e, appends it and persists the set. Nothing is saved
// when validation fails. The recorded event is best effort.
func (s *ExpenseService) Record(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Rejected expense",
			applog.NewFields().WithOperation(applog.OpValidate).WithExpense(e).WithError(err).ToSlice()...)
		return err
	}
	if !e.Date.Valid() {
		s.logger.WarnContext(ctx, "Expense date is not a calendar date; it will only count in the overall summary",
			applog.FieldDate, e.Date.String())
	}

	s.mu.Lock()
	records, err := s.store.AppendAndSave(ctx, s.records, e)
	if records != nil {
		s.records = records
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense recorded",
		applog.NewFields().WithOperation(applog.OpAppend).WithExpense(e).ToSlice()...)

	if s.publisher != nil {
		if err := s.publisher.PublishExpenseRecorded(ctx, e); err != nil {
			// The expense is saved; the mirror will just miss it.
			s.logger.ErrorContext(ctx, "Failed to publish expense recorded event",
				applog.NewFields().WithOperation(applog.OpPublish).WithError(err).ToSlice()...)
		}
	}
	return nil
}

// Summary aggregates the loaded records, optionally for one month.
func (s *ExpenseService) Summary(filter *core.Period) core.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Summarize(s.records, filter)
}

// Categories returns entry suggestions: seeds first, then every recorded
// category, then what the store listed when the service was created. The
// store is not consulted again.
func (s *ExpenseService) Categories(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := store.Suggestions(s.seeds, s.records)
	if len(s.stored) == 0 {
		return out
	}
	return store.Dedupe(append(out, s.stored...))
}

// Records returns a copy of the loaded records in insertion order.
func (s *ExpenseService) Records() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.Records()
}

// Len returns the number of loaded records.
func (s *ExpenseService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records.Len()
}

// Close releases the store and publisher when they hold resources.
func (s *ExpenseService) Close() error {
	var errs []error
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
