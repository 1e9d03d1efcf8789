package core

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

const (
	// EmphasisThreshold is the share of the grand total below which a
	// category is drawn separated from the rest of the pie.
	EmphasisThreshold = 0.05
	// ExplodeOffset is the radial offset, as a fraction of the radius,
	// applied to emphasized slices.
	ExplodeOffset = 0.05
)

var (
	emphasisThreshold = decimal.NewFromFloat(EmphasisThreshold)
	hundred           = decimal.NewFromInt(100)
)

// Period is a calendar month filter window.
type Period struct {
	Year  int
	Month int // 1-12; other values match nothing
}

// Contains reports whether d is a valid date inside the period.
func (p Period) Contains(d Date) bool {
	return d.Valid() && d.Year() == p.Year && d.Month() == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%d-%02d", p.Year, p.Month)
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the category to total mapping, ordered by descending total.
// Period is nil for the overall summary.
type Summary struct {
	Period     *Period
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}

// Empty reports whether no record contributed to the summary.
func (s Summary) Empty() bool {
	return len(s.ByCategory) == 0
}

// Share returns the i-th category's percentage of the total.
func (s Summary) Share(i int) decimal.Decimal {
	if s.Total.IsZero() {
		return decimal.Zero
	}
	return s.ByCategory[i].Amount.Mul(hundred).Div(s.Total)
}

// Emphasized reports whether the i-th category is below the emphasis threshold.
func (s Summary) Emphasized(i int) bool {
	return s.ByCategory[i].Amount.LessThan(s.Total.Mul(emphasisThreshold))
}

// Emphasis returns the emphasis flag of every category, in summary order.
func Emphasis(s Summary) []bool {
	out := make([]bool, len(s.ByCategory))
	for i := range s.ByCategory {
		out[i] = s.Emphasized(i)
	}
	return out
}

// Summarize groups records by category and sums their amounts.
//
// With a filter only records whose date parses and falls in the filter's
// month are counted; without one every record is, including those with an
// unparseable date. Records whose amount is not numeric never contribute.
// Groups are ordered by descending total; equal totals keep the order in
// which their category was first met.
func Summarize(records *RecordSet, filter *Period) Summary {
	sum := Summary{Total: decimal.Zero}
	if filter != nil {
		p := *filter
		sum.Period = &p
	}

	index := map[string]int{}
	for _, e := range records.All() {
		if filter != nil && !filter.Contains(e.Date) {
			continue
		}
		if !e.Amount.Valid() {
			continue
		}
		i, ok := index[e.Category]
		if !ok {
			i = len(sum.ByCategory)
			index[e.Category] = i
			sum.ByCategory = append(sum.ByCategory, CategoryAmount{Name: e.Category, Amount: decimal.Zero})
		}
		sum.ByCategory[i].Amount = sum.ByCategory[i].Amount.Add(e.Amount.Decimal)
		sum.Total = sum.Total.Add(e.Amount.Decimal)
	}

	slices.SortStableFunc(sum.ByCategory, func(a, b CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})
	return sum
}
