package core

import "iter"

// RecordSet is the insertion-ordered, append-only collection of expenses.
// Duplicate entries are valid and additive. The zero value is empty and
// ready to use.
type RecordSet struct {
	items []Expense
}

// NewRecordSet returns a set holding a copy of records.
func NewRecordSet(records ...Expense) *RecordSet {
	rs := &RecordSet{items: make([]Expense, 0, len(records))}
	rs.items = append(rs.items, records...)
	return rs
}

// Append adds e at the end.
func (rs *RecordSet) Append(e Expense) {
	rs.items = append(rs.items, e)
}

// Len returns the number of records; a nil set is empty.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.items)
}

// At returns the i-th record in insertion order.
func (rs *RecordSet) At(i int) Expense {
	return rs.items[i]
}

// All iterates records in insertion order.
func (rs *RecordSet) All() iter.Seq2[int, Expense] {
	return func(yield func(int, Expense) bool) {
		if rs == nil {
			return
		}
		for i, e := range rs.items {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Records returns a copy of the records.
func (rs *RecordSet) Records() []Expense {
	if rs == nil {
		return nil
	}
	out := make([]Expense, len(rs.items))
	copy(out, rs.items)
	return out
}

// Truncate drops every record after the first n. It undoes an Append whose
// persistence failed.
func (rs *RecordSet) Truncate(n int) {
	if n >= 0 && n < len(rs.items) {
		clear(rs.items[n:])
		rs.items = rs.items[:n]
	}
}
