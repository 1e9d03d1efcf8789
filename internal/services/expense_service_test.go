package services

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"expense-tracker/internal/core"
	"expense-tracker/internal/store/csvfile"
	"expense-tracker/internal/store/memory"
)

type fakeStore struct {
	loaded   *core.RecordSet
	loadErr  error
	saveErr  error
	saved    []core.Expense
	closed   bool
	closeErr error
}

func (f *fakeStore) Load(context.Context) (*core.RecordSet, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.loaded == nil {
		return core.NewRecordSet(), nil
	}
	return f.loaded, nil
}

func (f *fakeStore) AppendAndSave(_ context.Context, rs *core.RecordSet, e core.Expense) (*core.RecordSet, error) {
	if f.saveErr != nil {
		return rs, f.saveErr
	}
	f.saved = append(f.saved, e)
	rs.Append(e)
	return rs, nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return f.closeErr
}

type fakePublisher struct {
	published []core.Expense
	err       error
}

func (f *fakePublisher) PublishExpenseRecorded(_ context.Context, e core.Expense) error {
	f.published = append(f.published, e)
	return f.err
}

func expense(date, category string, amount float64) core.Expense {
	return core.Expense{Date: core.LooseDate(date), Category: category, Amount: core.AmountFromFloat(amount)}
}

func TestNewExpenseService(t *testing.T) {
	if _, err := NewExpenseService(context.Background(), nil, nil, nil); err == nil {
		t.Error("expected error for nil store")
	}

	loadErr := errors.New("disk gone")
	_, err := NewExpenseService(context.Background(), &fakeStore{loadErr: loadErr}, nil, nil)
	if !errors.Is(err, loadErr) {
		t.Errorf("expected wrapped load error, got %v", err)
	}

	svc, err := NewExpenseService(context.Background(), &fakeStore{loaded: core.NewRecordSet(expense("2025-01-01", "Food", 3))}, nil, nil)
	if err != nil {
		t.Fatalf("NewExpenseService() error = %v", err)
	}
	if svc.Len() != 1 {
		t.Errorf("Len() = %d, want 1", svc.Len())
	}
}

func TestExpenseService_RecordValidation(t *testing.T) {
	tests := []struct {
		name    string
		entry   core.Expense
		wantErr error
	}{
		{"blank category", expense("2025-03-01", "  ", 5), core.ErrEmptyCategory},
		{"zero amount", expense("2025-03-01", "Food", 0), core.ErrNonPositiveAmount},
		{"negative amount", expense("2025-03-01", "Food", -2), core.ErrNonPositiveAmount},
		{"non numeric amount", core.Expense{Date: core.Today(), Category: "Food", Amount: core.LooseAmount("abc")}, core.ErrInvalidAmount},
		{"valid", expense("2025-03-01", "Food", 5), nil},
		{"unparseable date is accepted", expense("last tuesday", "Food", 5), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{}
			pub := &fakePublisher{}
			svc, err := NewExpenseService(context.Background(), st, pub, nil)
			if err != nil {
				t.Fatal(err)
			}
			err = svc.Record(context.Background(), tt.entry)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Record() error = %v, want %v", err, tt.wantErr)
			}
			wantSaved := 0
			if tt.wantErr == nil {
				wantSaved = 1
			}
			if len(st.saved) != wantSaved || len(pub.published) != wantSaved || svc.Len() != wantSaved {
				t.Errorf("saved=%d published=%d len=%d, want %d", len(st.saved), len(pub.published), svc.Len(), wantSaved)
			}
		})
	}
}

func TestExpenseService_PublishFailureDoesNotFailRecord(t *testing.T) {
	st := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := NewExpenseService(context.Background(), st, pub, nil)

	if err := svc.Record(context.Background(), expense("2025-03-01", "Food", 5)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(st.saved) != 1 {
		t.Errorf("saved = %d, want 1", len(st.saved))
	}
}

func TestExpenseService_SaveFailure(t *testing.T) {
	saveErr := errors.New("read-only")
	st := &fakeStore{saveErr: saveErr}
	pub := &fakePublisher{}
	svc, _ := NewExpenseService(context.Background(), st, pub, nil)

	err := svc.Record(context.Background(), expense("2025-03-01", "Food", 5))
	if !errors.Is(err, saveErr) {
		t.Fatalf("Record() error = %v, want %v", err, saveErr)
	}
	if len(pub.published) != 0 {
		t.Error("nothing should be published when saving fails")
	}
}

func TestExpenseService_SummaryAndCategories(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.csv")
	svc, err := NewExpenseService(ctx, csvfile.New(path, nil), nil, nil, WithSeedCategories([]string{"Food", "Rent"}))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range []core.Expense{
		expense("2025-03-01", "Food", 10),
		expense("2025-03-05", "Travel", 25),
		expense("2025-04-01", "Food", 40),
	} {
		if err := svc.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	march := svc.Summary(&core.Period{Year: 2025, Month: 3})
	if len(march.ByCategory) != 2 || march.ByCategory[0].Name != "Travel" || march.Total.String() != "35" {
		t.Errorf("March summary = %+v", march)
	}
	overall := svc.Summary(nil)
	if overall.ByCategory[0].Name != "Food" || overall.Total.String() != "75" {
		t.Errorf("overall summary = %+v", overall)
	}

	if got, want := svc.Categories(ctx), []string{"Food", "Rent", "Travel"}; !slices.Equal(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}

	// A fresh service sees what the first one persisted.
	again, err := NewExpenseService(ctx, csvfile.New(path, nil), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if again.Len() != 3 {
		t.Errorf("reloaded Len() = %d, want 3", again.Len())
	}
}

func TestExpenseService_CategoriesFromLister(t *testing.T) {
	ctx := context.Background()
	st := memory.New([]string{"Groceries"})
	svc, err := NewExpenseService(ctx, st, nil, nil, WithSeedCategories(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.Categories(ctx); !slices.Equal(got, []string{"Groceries"}) {
		t.Errorf("Categories() = %v", got)
	}
}

type listingStore struct {
	fakeStore
	cats  []string
	calls int
}

func (l *listingStore) Categories(context.Context) ([]string, error) {
	l.calls++
	return l.cats, nil
}

func TestExpenseService_CategoriesListedOnce(t *testing.T) {
	ctx := context.Background()
	st := &listingStore{cats: []string{"Gifts"}}
	svc, err := NewExpenseService(ctx, st, nil, nil, WithSeedCategories(nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Record(ctx, expense("2025-03-01", "Books", 3)); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		if got := svc.Categories(ctx); !slices.Equal(got, []string{"Books", "Gifts"}) {
			t.Errorf("Categories() = %v", got)
		}
	}
	if st.calls != 1 {
		t.Errorf("store listed %d times, want 1", st.calls)
	}
}

func TestExpenseService_Close(t *testing.T) {
	st := &fakeStore{closeErr: errors.New("busy")}
	svc, _ := NewExpenseService(context.Background(), st, nil, nil)

	err := svc.Close()
	if !st.closed {
		t.Error("store should be closed")
	}
	if err == nil {
		t.Error("expected close error")
	}

	svc, _ = NewExpenseService(context.Background(), memory.New(nil), nil, nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close should not return error without closers: %v", err)
	}
}
