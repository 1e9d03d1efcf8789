package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"expense-tracker/internal/config"
	"expense-tracker/internal/storage"
	"expense-tracker/internal/store/csvfile"
	"expense-tracker/internal/store/memory"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "excel"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{DataBackend: "csv", DataFile: "x.csv", GoogleSheetName: "Expenses"})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != CSVBackend || cfg.DataFile != "x.csv" || cfg.SheetsOptions().SheetName != "Expenses" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"csv ok", Config{Type: CSVBackend, DataFile: "e.csv"}, ""},
		{"csv without file", Config{Type: CSVBackend}, "data file path is required"},
		{"sqlite without path", Config{Type: SQLiteBackend}, "SQLite database path is required"},
		{"sheets without id", Config{Type: SheetsBackend, GoogleSheetName: "E"}, "Spreadsheet ID is required"},
		{"sheets without credentials", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id", GoogleSheetName: "E"}, "GoogleServiceAccountJSON"},
		{"memory ok", Config{Type: MemoryBackend}, ""},
		{"unknown", Config{Type: "bolt"}, "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_CreateBackend(t *testing.T) {
	dir := t.TempDir()
	f := NewFactory(nil)
	ctx := context.Background()

	res, err := f.CreateBackend(ctx, Config{Type: CSVBackend, DataFile: filepath.Join(dir, "e.csv")})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if _, ok := res.Store.(*csvfile.Store); !ok {
		t.Errorf("csv store type = %T", res.Store)
	}
	if err := res.Close(); err != nil {
		t.Errorf("csv Close() = %v", err)
	}

	res, err = f.CreateBackend(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := res.Store.(*memory.Store); !ok {
		t.Errorf("memory store type = %T", res.Store)
	}

	res, err = f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "db", "e.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := res.Store.(*storage.SQLiteRepository); !ok {
		t.Errorf("sqlite store type = %T", res.Store)
	}
	if err := res.Close(); err != nil {
		t.Errorf("sqlite Close() = %v", err)
	}

	if _, err := f.CreateBackend(ctx, Config{Type: SheetsBackend, GoogleSpreadsheetID: "id", GoogleSheetName: "E", GoogleServiceAccountFile: filepath.Join(dir, "missing.json")}); err == nil {
		t.Error("sheets with missing credentials file should fail")
	}
}
