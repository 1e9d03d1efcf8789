package collector

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"expense-tracker/internal/core"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	p := New(strings.NewReader(input), &out)
	p.warn.DisableColor()
	p.today = func() core.Date { return core.NewDate(2025, 6, 15) }
	return p, &out
}

func TestCollect(t *testing.T) {
	p, out := newPrompter("2025-03-01\nFood\n12.50\n")
	e, err := p.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if e.Date.String() != "2025-03-01" || e.Category != "Food" || e.Amount.String() != "12.5" {
		t.Errorf("Collect() = %+v", e)
	}
	for _, prompt := range []string{PromptDate, PromptCategory, PromptAmount} {
		if !strings.Contains(out.String(), prompt) {
			t.Errorf("output missing prompt %q", prompt)
		}
	}
}

func TestCollectKeepsCategoryAsTyped(t *testing.T) {
	for _, category := range []string{"food ", " food", "Food"} {
		p, _ := newPrompter("2025-03-01\n" + category + "\n3\n")
		e, err := p.Collect()
		if err != nil {
			t.Fatalf("Collect() error = %v", err)
		}
		if e.Category != category {
			t.Errorf("category %q collected as %q", category, e.Category)
		}
	}
}

func TestAmountReprompts(t *testing.T) {
	p, out := newPrompter("abc\n0\n-4\n1,5\n")
	a, err := p.Amount()
	if err != nil {
		t.Fatalf("Amount() error = %v", err)
	}
	if a.String() != "1.5" {
		t.Errorf("Amount() = %s, want 1.5", a)
	}
	if got := strings.Count(out.String(), MsgInvalidNumber); got != 1 {
		t.Errorf("invalid number message shown %d times, want 1", got)
	}
	if got := strings.Count(out.String(), MsgNonPositive); got != 2 {
		t.Errorf("non-positive message shown %d times, want 2", got)
	}
	if got := strings.Count(out.String(), PromptAmount); got != 4 {
		t.Errorf("amount prompt shown %d times, want 4", got)
	}
}

func TestCategoryReprompts(t *testing.T) {
	p, out := newPrompter("\n   \n Rent \n")
	c, err := p.Category()
	if err != nil {
		t.Fatalf("Category() error = %v", err)
	}
	if c != " Rent " {
		t.Errorf("Category() = %q, want %q", c, " Rent ")
	}
	if got := strings.Count(out.String(), MsgEmptyCategory); got != 2 {
		t.Errorf("empty category message shown %d times, want 2", got)
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		wantValid bool
		wantWarn  bool
	}{
		{"iso date", "2025-03-01\n", "2025-03-01", true, false},
		{"blank means today", "\n", "2025-06-15", true, false},
		{"unparseable kept", "next friday\n", "next friday", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newPrompter(tt.input)
			d, err := p.Date()
			if err != nil {
				t.Fatalf("Date() error = %v", err)
			}
			if d.String() != tt.want || d.Valid() != tt.wantValid {
				t.Errorf("Date() = %q valid=%v", d, d.Valid())
			}
			if got := strings.Contains(out.String(), "Warning:"); got != tt.wantWarn {
				t.Errorf("warning shown = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", false},
		{"n\n", false},
		{"\n", false},
	}
	for _, tt := range tests {
		p, out := newPrompter(tt.input)
		got, err := p.Confirm("Do you want to see a monthly summary?")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Do you want to see a monthly summary? (y/n): ") {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestPeriod(t *testing.T) {
	p, out := newPrompter("twenty\n2025\n13\n")
	got, err := p.Period()
	if err != nil {
		t.Fatalf("Period() error = %v", err)
	}
	if got != (core.Period{Year: 2025, Month: 13}) {
		t.Errorf("Period() = %+v", got)
	}
	if !strings.Contains(out.String(), MsgInvalidInteger) {
		t.Error("expected invalid integer message")
	}
}

func TestEOF(t *testing.T) {
	p, _ := newPrompter("2025-03-01\nFood\n")
	_, err := p.Collect()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Collect() error = %v, want io.ErrUnexpectedEOF", err)
	}
}
