// Package collector gathers expense entries and summary choices from an
// interactive terminal.
package collector

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"expense-tracker/internal/core"
)

const (
	PromptDate     = "Enter date (YYYY-MM-DD): "
	PromptCategory = "Enter category (Food, Travel, Rent, etc.): "
	PromptAmount   = "Enter amount: "
	PromptYear     = "Enter year (e.g. 2025): "
	PromptMonth    = "Enter month (1-12): "

	MsgInvalidNumber  = "Invalid input! Please enter a number."
	MsgNonPositive    = "Amount must be greater than zero."
	MsgEmptyCategory  = "Category cannot be empty."
	MsgInvalidInteger = "Invalid input! Please enter a whole number."
)

// Prompter reads answers line by line. Every method returns an error
// wrapping io.ErrUnexpectedEOF when input ends before an answer is given.
type Prompter struct {
	in    *bufio.Scanner
	out   io.Writer
	warn  *color.Color
	today func() core.Date
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    bufio.NewScanner(in),
		out:   out,
		warn:  color.New(color.FgYellow),
		today: core.Today,
	}
}

func (p *Prompter) ask(prompt string) (string, error) {
	line, err := p.askRaw(prompt)
	return strings.TrimSpace(line), err
}

// askRaw returns the answer line as typed.
func (p *Prompter) askRaw(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		fmt.Fprintln(p.out)
		return "", fmt.Errorf("input closed at %q: %w", strings.TrimSpace(prompt), io.ErrUnexpectedEOF)
	}
	return p.in.Text(), nil
}

func (p *Prompter) warnf(format string, args ...any) {
	p.warn.Fprintf(p.out, format+"\n", args...)
}

// Date asks for the expense date. A blank answer means today. Text that is
// not a date is kept as typed after a warning, because such a record still
// counts in the overall summary.
func (p *Prompter) Date() (core.Date, error) {
	answer, err := p.ask(PromptDate)
	if err != nil {
		return core.Date{}, err
	}
	if answer == "" {
		return p.today(), nil
	}
	d := core.LooseDate(answer)
	if !d.Valid() {
		p.warnf("Warning: %q is not a YYYY-MM-DD date; this expense will not appear in monthly summaries.", answer)
	}
	return d, nil
}

// Category asks until a non-blank category is given. The answer is kept
// exactly as typed, surrounding whitespace included.
func (p *Prompter) Category() (string, error) {
	for {
		answer, err := p.askRaw(PromptCategory)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(answer) != "" {
			return answer, nil
		}
		p.warnf(MsgEmptyCategory)
	}
}

// Amount asks until a positive number is given.
func (p *Prompter) Amount() (core.Amount, error) {
	for {
		answer, err := p.ask(PromptAmount)
		if err != nil {
			return core.Amount{}, err
		}
		a, err := core.ParseAmount(answer)
		if err != nil {
			p.warnf(MsgInvalidNumber)
			continue
		}
		if !a.IsPositive() {
			p.warnf(MsgNonPositive)
			continue
		}
		return a, nil
	}
}

// Collect asks for date, category and amount in that order.
func (p *Prompter) Collect() (core.Expense, error) {
	var e core.Expense
	var err error
	if e.Date, err = p.Date(); err != nil {
		return e, err
	}
	if e.Category, err = p.Category(); err != nil {
		return e, err
	}
	if e.Amount, err = p.Amount(); err != nil {
		return e, err
	}
	return e, nil
}

// Confirm asks a y/n question; only "y" (any case) is yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.ask(question + " (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}

// Period asks for a year and a month. The range is not checked: a month
// outside 1-12 simply matches no record.
func (p *Prompter) Period() (core.Period, error) {
	year, err := p.integer(PromptYear)
	if err != nil {
		return core.Period{}, err
	}
	month, err := p.integer(PromptMonth)
	if err != nil {
		return core.Period{}, err
	}
	return core.Period{Year: year, Month: month}, nil
}

func (p *Prompter) integer(prompt string) (int, error) {
	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil {
			return n, nil
		}
		p.warnf(MsgInvalidInteger)
	}
}
