package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"expense-tracker/internal/chart"
	"expense-tracker/internal/collector"
	"expense-tracker/internal/core"
	"expense-tracker/internal/present"
)

// MsgRecorded confirms a saved entry.
const MsgRecorded = "Expense Added Successfully!"

// QuestionMonthly offers the monthly view after an entry is saved.
const QuestionMonthly = "Do you want to see a monthly summary?"

// Notices for input that ends early, before and after the entry is saved.
const (
	MsgEndedUnsaved = "Input ended before the entry was complete; nothing was saved."
	MsgEndedSaved   = "Input ended before the summary was chosen; the expense was saved."
)

// Recorder is the part of the expense service the terminal session uses.
type Recorder interface {
	Record(ctx context.Context, e core.Expense) error
	Summary(filter *core.Period) core.Summary
}

// Session is one terminal run: collect an entry, save it, then show the
// chosen summary as a table, bars and chart files.
type Session struct {
	Service   Recorder
	Prompter  *collector.Prompter
	Presenter *present.Presenter
	Out       io.Writer
	// ChartDir receives pie.svg and bar.svg; empty skips the files.
	ChartDir string

	saved bool
}

// Saved reports whether Run recorded the entry.
func (s *Session) Saved() bool {
	return s.saved
}

// EndedEarlyMessage describes input that ended before Run finished.
func (s *Session) EndedEarlyMessage() string {
	if s.saved {
		return MsgEndedSaved
	}
	return MsgEndedUnsaved
}

// Run executes the session. An entry that fails validation is reported and
// the session continues to the summary with nothing saved.
func (s *Session) Run(ctx context.Context) error {
	e, err := s.Prompter.Collect()
	if err != nil {
		return err
	}
	if err := s.Service.Record(ctx, e); err != nil {
		if !isValidation(err) {
			return fmt.Errorf("record expense: %w", err)
		}
		color.New(color.FgRed).Fprintf(s.Out, "\nExpense not saved: %v\n\n", err)
	} else {
		s.saved = true
		color.New(color.FgGreen).Fprintf(s.Out, "\n%s\n\n", MsgRecorded)
	}

	monthly, err := s.Prompter.Confirm(QuestionMonthly)
	if err != nil {
		return err
	}
	var filter *core.Period
	if monthly {
		p, err := s.Prompter.Period()
		if err != nil {
			return err
		}
		filter = &p
	}

	sum := s.Service.Summary(filter)
	fmt.Fprintln(s.Out)
	if sum.Empty() {
		fmt.Fprintln(s.Out, present.Heading(sum))
		return s.Presenter.NoData()
	}
	if err := s.Presenter.Text(sum); err != nil {
		return err
	}
	if err := s.Presenter.Bars(sum); err != nil {
		return err
	}
	if s.ChartDir == "" {
		return nil
	}
	paths, err := WriteCharts(s.ChartDir, sum)
	for _, p := range paths {
		fmt.Fprintf(s.Out, "Chart saved to %s\n", p)
	}
	if err != nil {
		color.New(color.FgYellow).Fprintf(s.Out, "Warning: %v\n", err)
	}
	return nil
}

func isValidation(err error) bool {
	return errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrNonPositiveAmount)
}

// WriteCharts renders the pie and bar charts of sum into dir and returns the
// written paths. A chart that cannot be drawn or written does not stop the
// other one; the failures are joined into the returned error.
func WriteCharts(dir string, sum core.Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}
	charts := []struct {
		name string
		draw func(core.Summary) ([]byte, error)
	}{
		{"pie.svg", chart.Pie},
		{"bar.svg", chart.Bar},
	}
	var paths []string
	var errs []error
	for _, c := range charts {
		svg, err := c.draw(sum)
		if err != nil {
			errs = append(errs, fmt.Errorf("draw %s: %w", c.name, err))
			continue
		}
		path := filepath.Join(dir, c.name)
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", c.name, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
