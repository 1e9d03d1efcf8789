// Package csvfile keeps expense records in a comma separated flat file with
// a Date,Category,Amount header. The file is rewritten whole on every save.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/store"
)

// Store is the flat file record store.
type Store struct {
	path   string
	logger *applog.Logger
}

// New returns a store backed by the file at path. The file is created on
// first Load when missing.
func New(path string, logger *applog.Logger) *Store {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Store{path: path, logger: logger.WithComponent(applog.ComponentStorage)}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads every row of the file. A missing file is created holding only
// the header and an empty set is returned.
func (s *Store) Load(ctx context.Context) (*core.RecordSet, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		records := core.NewRecordSet()
		if err := s.save(records); err != nil {
			return nil, fmt.Errorf("create %s: %w", s.path, err)
		}
		s.logger.InfoContext(ctx, "Created empty data file", "path", s.path)
		return records, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	s.logger.DebugContext(ctx, "Loaded data file", "path", s.path, applog.FieldRecords, records.Len())
	return records, nil
}

func read(r io.Reader) (*core.RecordSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records := core.NewRecordSet()
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return records, nil
	}
	if err != nil {
		return nil, err
	}
	cols := store.Columns(header)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records.Append(store.FromRow(row, cols))
	}
}

// AppendAndSave appends e and rewrites the file. When writing fails the
// append is undone so memory matches disk.
func (s *Store) AppendAndSave(ctx context.Context, records *core.RecordSet, e core.Expense) (*core.RecordSet, error) {
	if records == nil {
		records = core.NewRecordSet()
	}
	n := records.Len()
	records.Append(e)
	if err := s.save(records); err != nil {
		records.Truncate(n)
		return records, fmt.Errorf("save %s: %w", s.path, err)
	}
	s.logger.DebugContext(ctx, "Saved data file", "path", s.path, applog.FieldRecords, records.Len())
	return records, nil
}

// save writes the full set to a temporary file next to the target and
// renames it into place.
func (s *Store) save(records *core.RecordSet) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(store.Header); err != nil {
		return err
	}
	for _, e := range records.All() {
		if err = w.Write(store.ToRow(e)); err != nil {
			return err
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
