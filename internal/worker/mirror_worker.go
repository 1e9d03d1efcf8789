// Package worker copies recorded expenses into the spreadsheet mirror.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"expense-tracker/internal/amqp"
	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
)

// ExpenseAppender writes one expense row to the mirror.
type ExpenseAppender interface {
	Append(ctx context.Context, e core.Expense) (rowRef string, err error)
}

// Consumer delivers expense.recorded messages until ctx is done.
type Consumer interface {
	ConsumeExpenseRecorded(ctx context.Context, handler func(context.Context, *amqp.ExpenseRecordedMessage) error) error
}

// Stats counts processed messages.
type Stats struct {
	Mirrored int64
	Skipped  int64
	Failed   int64
}

// MirrorWorker appends each recorded expense to the spreadsheet.
type MirrorWorker struct {
	sheets  ExpenseAppender
	timeout time.Duration
	logger  *applog.Logger

	mirrored atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

func NewMirrorWorker(sheets ExpenseAppender, timeout time.Duration, logger *applog.Logger) *MirrorWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MirrorWorker{
		sheets:  sheets,
		timeout: timeout,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleExpenseRecorded appends the message's expense. Entries that fail
// validation are skipped rather than retried; a failing append is returned
// so the message is requeued.
func (w *MirrorWorker) HandleExpenseRecorded(ctx context.Context, msg *amqp.ExpenseRecordedMessage) error {
	e := msg.Expense()
	fields := applog.NewFields().WithOperation(applog.OpMirror).WithExpense(e)

	if err := e.Validate(); err != nil {
		w.skipped.Add(1)
		w.logger.WarnContext(ctx, "Skipping invalid expense", fields.WithError(err).ToSlice()...)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ref, err := w.sheets.Append(ctx, e)
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("mirror expense to sheet: %w", err)
	}
	w.mirrored.Add(1)
	w.logger.InfoContext(ctx, "Expense mirrored", append(fields.ToSlice(), "row", ref)...)
	return nil
}

// Run consumes from c until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, c Consumer) error {
	w.logger.InfoContext(ctx, "Mirror worker started")
	err := c.ConsumeExpenseRecorded(ctx, w.HandleExpenseRecorded)
	s := w.Stats()
	w.logger.InfoContext(ctx, "Mirror worker stopped", "mirrored", s.Mirrored, "skipped", s.Skipped, "failed", s.Failed)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Stats returns a snapshot of the counters.
func (w *MirrorWorker) Stats() Stats {
	return Stats{Mirrored: w.mirrored.Load(), Skipped: w.skipped.Load(), Failed: w.failed.Load()}
}
