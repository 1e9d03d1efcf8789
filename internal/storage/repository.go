// Package storage is the SQLite record store. Each expense is one row; the
// stored text of date and amount is kept as written so unparseable values
// survive a round trip exactly like they do in the flat file.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/store"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db     *sql.DB
	logger *applog.Logger
}

func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; the driver serialises anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("SQLite repository ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load implements store.Store
func (r *SQLiteRepository) Load(ctx context.Context) (*core.RecordSet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT date_text, category, amount_text FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	records := core.NewRecordSet()
	cols := [3]int{0, 1, 2}
	for rows.Next() {
		row := make([]string, 3)
		if err := rows.Scan(&row[0], &row[1], &row[2]); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		records.Append(store.FromRow(row, cols))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	r.logger.DebugContext(ctx, "Loaded expenses from SQLite", applog.FieldRecords, records.Len())
	return records, nil
}

// AppendAndSave implements store.Store. Earlier rows are already durable, so
// persisting the set only needs the new row.
func (r *SQLiteRepository) AppendAndSave(ctx context.Context, records *core.RecordSet, e core.Expense) (*core.RecordSet, error) {
	if records == nil {
		records = core.NewRecordSet()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return records, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := store.ToRow(e)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (date_text, category, amount_text) VALUES (?, ?, ?)`,
		row[0], row[1], row[2])
	if err != nil {
		return records, fmt.Errorf("insert expense: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return records, fmt.Errorf("commit expense: %w", err)
	}

	id, _ := res.LastInsertId()
	records.Append(e)
	r.logger.InfoContext(ctx, "Expense saved to SQLite",
		append([]any{"id", id}, applog.NewFields().WithExpense(e).ToSlice()...)...)
	return records, nil
}

// Categories implements store.CategoryLister: stored categories in order of
// first appearance.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category FROM expenses GROUP BY category ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return store.Dedupe(out), nil
}
