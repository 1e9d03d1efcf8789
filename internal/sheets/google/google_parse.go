package google

import (
	"fmt"

	"expense-tracker/internal/core"
	"expense-tracker/internal/store"
)

// parseRows converts a values matrix as returned by the Sheets API into a
// record set. The first row is the header; columns are located by name.
// Blank rows inside the range are skipped.
func parseRows(values [][]any) *core.RecordSet {
	records := core.NewRecordSet()
	if len(values) == 0 {
		return records
	}
	cols := store.Columns(toStrings(values[0]))
	for _, raw := range values[1:] {
		row := toStrings(raw)
		if blank(row) {
			continue
		}
		records.Append(store.FromRow(row, cols))
	}
	return records
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toCells(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
