//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/core"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_GoogleSheetsFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if os.Getenv("GOOGLE_SPREADSHEET_ID") == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	cfg := config.Load()
	if cfg.GoogleServiceAccountJSON == "" && cfg.GoogleServiceAccountFile == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewWithServiceAccount(ctx, Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	}, nil)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	before, err := client.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	e := core.Expense{Date: core.Today(), Category: "Integration", Amount: core.AmountFromFloat(0.01)}
	if _, err := client.AppendAndSave(ctx, before, e); err != nil {
		t.Fatalf("AppendAndSave() error = %v", err)
	}

	after, err := client.Load(ctx)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if after.Len() != before.Len() {
		t.Errorf("reload len = %d, want %d", after.Len(), before.Len())
	}
	t.Logf("Sheet now holds %d records", after.Len())
}
