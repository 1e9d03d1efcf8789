// Package core provides money parsing and handling utilities.
//
// This file contains the Amount type used for every expense value and the
// helpers that format totals for display.
package core

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount is a decimal monetary value. An Amount read from stored text that
// is not a number keeps that text and reports Valid() == false.
type Amount struct {
	decimal.Decimal
	raw     string
	invalid bool
}

// NewAmount wraps a decimal value.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// AmountFromFloat is a convenience for tests and literal values.
func AmountFromFloat(f float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(f)}
}

// Limits on the digits of an amount. Larger values are rejected so that a
// single entry cannot make every later sum arbitrarily expensive.
const (
	MaxIntegerDigits  = 15
	MaxFractionDigits = 8
)

// ParseAmount converts a decimal string to an Amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional sign. Exponent notation and values beyond MaxIntegerDigits or
// MaxFractionDigits are rejected. Positivity is not checked here; see
// Expense.Validate.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("abc")   -> ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	norm := strings.ReplaceAll(s, ",", ".")
	if strings.Count(norm, ".") > 1 || strings.ContainsAny(norm, "eE") {
		return Amount{}, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(strings.TrimLeft(norm, "+-"), ".")
	if len(strings.TrimLeft(intPart, "0")) > MaxIntegerDigits ||
		len(strings.TrimRight(fracPart, "0")) > MaxFractionDigits {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{Decimal: d}, nil
}

// LooseAmount never fails and keeps s for String, so stored values are
// written back exactly as read. Text that is not numeric yields an invalid
// Amount that Summarize skips.
func LooseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		return Amount{raw: s, invalid: true}
	}
	a.raw = s
	return a
}

// Valid reports whether the amount is numeric.
func (a Amount) Valid() bool {
	return !a.invalid
}

// String returns the original text for stored values, the decimal otherwise.
func (a Amount) String() string {
	if a.invalid || a.raw != "" {
		return a.raw
	}
	return a.Decimal.String()
}

// FormatAmount renders d in the given ISO currency, e.g. "€1,234.50".
// Unknown currency codes fall back to a plain two-decimal number; totals too
// large for money's int64 minor units are shown as the code and the fixed
// decimal, e.g. "EUR 100000000000000000000.00".
func FormatAmount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	if !minor.BigInt().IsInt64() {
		return cur.Code + " " + d.StringFixed(int32(cur.Fraction))
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}
