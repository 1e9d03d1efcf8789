// Package memory is an in-process record store for demos and tests.
package memory

import (
	"context"
	"path/filepath"
	"sync"

	"expense-tracker/internal/core"
	"expense-tracker/internal/store"
)

type Store struct {
	mu    sync.Mutex
	cats  []string
	items []core.Expense
}

// New returns an empty store suggesting cats.
func New(cats []string, records ...core.Expense) *Store {
	return &Store{cats: store.Dedupe(cats), items: append([]core.Expense(nil), records...)}
}

// NewFromFile seeds category suggestions from path, falling back to the
// defaults when the file is missing or empty.
func NewFromFile(path string) *Store {
	cats := store.ReadSeedFile(path)
	if len(cats) == 0 {
		cats = store.DefaultCategories
	}
	return New(cats)
}

// NewFromDir looks for seed_categories.txt in base.
func NewFromDir(base string) *Store {
	return NewFromFile(filepath.Join(base, "seed_categories.txt"))
}

// Load returns a snapshot of the stored records.
func (s *Store) Load(_ context.Context) (*core.RecordSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.NewRecordSet(s.items...), nil
}

// AppendAndSave appends e to records and keeps a copy of it.
func (s *Store) AppendAndSave(_ context.Context, records *core.RecordSet, e core.Expense) (*core.RecordSet, error) {
	if records == nil {
		records = core.NewRecordSet()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	records.Append(e)
	return records, nil
}

// Categories returns the seeds followed by every stored category.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.Suggestions(s.cats, core.NewRecordSet(s.items...)), nil
}
