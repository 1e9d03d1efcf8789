// Package store defines the persistence ports for expense records.
package store

import (
	"bufio"
	"context"
	"os"
	"strings"

	"expense-tracker/internal/core"
)

// Ports for outbound adapters.
type (
	// Store loads and persists the whole record set.
	Store interface {
		// Load returns every stored record in insertion order. A missing
		// backing store is created with its header and yields an empty set.
		Load(ctx context.Context) (*core.RecordSet, error)
		// AppendAndSave appends e to records and persists the result.
		AppendAndSave(ctx context.Context, records *core.RecordSet, e core.Expense) (*core.RecordSet, error)
	}

	// CategoryLister offers category suggestions for entry forms.
	CategoryLister interface {
		Categories(ctx context.Context) ([]string, error)
	}
)

// Header is the column layout shared by the flat file and the spreadsheet.
var Header = []string{"Date", "Category", "Amount"}

// DefaultCategories are offered when no seed file is configured.
var DefaultCategories = []string{"Food", "Travel", "Rent"}

// Columns maps the header names to their index in a row. Names are matched
// exactly; a missing name maps to -1.
func Columns(header []string) [3]int {
	cols := [3]int{-1, -1, -1}
	for i, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		for j, want := range Header {
			if name == want && cols[j] < 0 {
				cols[j] = i
			}
		}
	}
	return cols
}

// FromRow builds an expense from a stored row. Short rows are padded with
// empty strings and unparseable values are kept verbatim.
func FromRow(row []string, cols [3]int) core.Expense {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return core.Expense{
		Date:     core.LooseDate(cell(cols[0])),
		Category: cell(cols[1]),
		Amount:   core.LooseAmount(cell(cols[2])),
	}
}

// ToRow renders an expense in Header order.
func ToRow(e core.Expense) []string {
	return []string{e.Date.String(), e.Category, e.Amount.String()}
}

// ReadSeedFile reads one category per line, skipping blanks and # comments.
// A missing file yields nil.
func ReadSeedFile(path string) []string {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return Dedupe(out)
}

// Suggestions merges seeds with the categories seen in records, seeds first,
// each name once in first-seen order.
func Suggestions(seeds []string, records *core.RecordSet) []string {
	all := append([]string(nil), seeds...)
	for _, e := range records.All() {
		all = append(all, e.Category)
	}
	return Dedupe(all)
}

// Dedupe drops blanks and repeats, preserving input order.
func Dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
