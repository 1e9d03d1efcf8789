// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"expense-tracker/internal/core"
)

// View names accepted by the summary endpoints.
const (
	ViewOverall = "overall"
	ViewMonthly = "monthly"
)

// ParseViewParams reads view, year and month from query parameters. The
// overall view yields a nil period. A monthly view without year or month
// defaults to now's. Out of range values are kept; they select no records.
func ParseViewParams(query url.Values, now time.Time) (*core.Period, error) {
	switch view := strings.TrimSpace(query.Get("view")); view {
	case "", ViewOverall:
		return nil, nil
	case ViewMonthly:
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}

	p := &core.Period{Year: now.Year(), Month: int(now.Month())}
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", v)
		}
		p.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q", v)
		}
		p.Month = m
	}
	return p, nil
}

// viewKey names a summary view for caching.
func viewKey(p *core.Period) string {
	if p == nil {
		return ViewOverall
	}
	return p.String()
}

// ParseExpenseForm builds an entry from the date, category and amount form
// fields. A blank date means today. Text that does not parse is kept as is,
// so validation, not parsing, decides whether the entry is accepted. The
// category keeps its surrounding whitespace: "food " and "food" are
// different categories.
func ParseExpenseForm(form url.Values, now time.Time) core.Expense {
	date := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if v := sanitizeInput(form.Get("date")); v != "" {
		date = core.LooseDate(v)
	}
	return core.Expense{
		Date:     date,
		Category: stripControl(form.Get("category")),
		Amount:   core.LooseAmount(sanitizeInput(form.Get("amount"))),
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	return stripControl(strings.TrimSpace(s))
}

// stripControl removes control characters other than tab, newline and
// carriage return.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Malformed request")
	}
	return nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
