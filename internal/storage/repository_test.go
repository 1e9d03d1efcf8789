package storage

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"expense-tracker/internal/core"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "expenses.db")
	repo, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestSQLiteRepositoryEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)
	records, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if records.Len() != 0 {
		t.Fatalf("Load() len = %d, want 0", records.Len())
	}
}

func TestSQLiteRepositoryAppendAndReload(t *testing.T) {
	repo, path := newTestRepo(t)
	ctx := context.Background()

	records, err := repo.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	entries := []core.Expense{
		{Date: core.NewDate(2025, 3, 1), Category: "Food", Amount: core.AmountFromFloat(10)},
		{Date: core.LooseDate("not a date"), Category: "Travel", Amount: core.AmountFromFloat(4.25)},
		{Date: core.NewDate(2025, 3, 9), Category: "Food", Amount: core.AmountFromFloat(2)},
	}
	for _, e := range entries {
		if records, err = repo.AppendAndSave(ctx, records, e); err != nil {
			t.Fatalf("AppendAndSave() error = %v", err)
		}
	}
	if records.Len() != 3 {
		t.Fatalf("in-memory len = %d, want 3", records.Len())
	}

	repo.Close()
	reopened, err := NewSQLiteRepository(path, nil)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 3 {
		t.Fatalf("reloaded len = %d, want 3", loaded.Len())
	}
	if got := loaded.At(1).Date.String(); got != "not a date" {
		t.Errorf("unparseable date = %q, want verbatim", got)
	}
	if loaded.At(1).Date.Valid() {
		t.Errorf("unparseable date should stay invalid")
	}

	cats, err := reopened.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if want := []string{"Food", "Travel"}; !slices.Equal(cats, want) {
		t.Errorf("Categories() = %v, want %v", cats, want)
	}

	sum := core.Summarize(loaded, &core.Period{Year: 2025, Month: 3})
	if len(sum.ByCategory) != 1 || sum.ByCategory[0].Name != "Food" || sum.Total.String() != "12" {
		t.Errorf("monthly summary = %+v", sum)
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	_, path := newTestRepo(t)
	version, err := RunMigrations(path)
	if err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}
