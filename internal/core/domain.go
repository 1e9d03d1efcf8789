package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the canonical layout used when a date is written back out.
const DateLayout = "2006-01-02"

// dateLayouts lists the formats accepted for a stored or typed date, tried in order.
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-1-2",
}

type (
	// Date is a calendar date that remembers the text it was read from.
	// A Date built from unparseable text is kept so it can be written back
	// verbatim, but it is never Valid.
	Date struct {
		time.Time
		raw string
	}

	Expense struct {
		Date     Date
		Category string // exact label, never trimmed or case-folded
		Amount   Amount
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	ErrEmptyCategory     = errors.New("empty category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses s using the accepted layouts.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := NewDate(t.Year(), int(t.Month()), t.Day())
			d.raw = s
			return d, nil
		}
	}
	return Date{}, ErrInvalidDate
}

// LooseDate never fails: text that does not parse yields an invalid Date
// that still round-trips through String.
func LooseDate(s string) Date {
	if d, err := ParseDate(s); err == nil {
		return d
	}
	return Date{raw: s}
}

// Valid reports whether the date parsed as a calendar date.
func (d Date) Valid() bool {
	return !d.IsZero()
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the month (1-12)
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// String returns the original text when there is one, the canonical form otherwise.
func (d Date) String() string {
	if d.raw != "" {
		return d.raw
	}
	if !d.Valid() {
		return ""
	}
	return d.Format(DateLayout)
}

// Validate applies the entry rules shared by every front end: a non-blank
// category and a positive numeric amount. The date is not checked; an
// unparseable date only keeps the record out of monthly summaries.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if !e.Amount.Valid() {
		return ErrInvalidAmount
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	return nil
}
