// Package google stores expense records in a Google Sheets tab laid out like
// the flat file: a Date, Category, Amount header followed by one row per
// expense.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
	"expense-tracker/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *applog.Logger
}

// Ensure interface conformance
var (
	_ store.Store          = (*Client)(nil)
	_ store.CategoryLister = (*Client)(nil)
)

// Options identifies the target tab and, for NewWithServiceAccount, the
// credentials to use.
type Options struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// New creates a client on top of the Sheets API. Callers supply either
// credentials or, in tests, an endpoint and HTTP client.
func New(ctx context.Context, opts Options, logger *applog.Logger, clientOpts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(opts.SheetName) == "" {
		opts.SheetName = "Expenses"
	}
	if logger == nil {
		logger = applog.Discard()
	}
	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		sheetName:     opts.SheetName,
		logger:        logger.WithComponent(applog.ComponentSheets),
	}, nil
}

// NewWithServiceAccount creates a client authenticated with a service
// account key.
func NewWithServiceAccount(ctx context.Context, opts Options, logger *applog.Logger) (*Client, error) {
	creds, err := serviceAccountJSON(opts)
	if err != nil {
		return nil, err
	}
	return New(ctx, opts, logger,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
}

// serviceAccountJSON prefers inline JSON over a credentials file.
func serviceAccountJSON(opts Options) ([]byte, error) {
	switch {
	case strings.TrimSpace(opts.ServiceAccountJSON) != "":
		return []byte(opts.ServiceAccountJSON), nil
	case strings.TrimSpace(opts.ServiceAccountFile) != "":
		b, err := os.ReadFile(opts.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (c *Client) dataRange() string {
	return fmt.Sprintf("%s!A:C", c.sheetName)
}

// Load implements store.Store. An empty tab gets the header row written and
// yields an empty set.
func (c *Client) Load(ctx context.Context) (*core.RecordSet, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := c.dataRange()
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		if err := c.writeHeader(ctx); err != nil {
			return nil, err
		}
		c.logger.InfoContext(ctx, "Initialized empty expenses sheet", "sheet", c.sheetName)
		return core.NewRecordSet(), nil
	}
	records := parseRows(resp.Values)
	c.logger.DebugContext(ctx, "Loaded expenses sheet", "sheet", c.sheetName, applog.FieldRecords, records.Len())
	return records, nil
}

func (c *Client) writeHeader(ctx context.Context) error {
	rng := fmt.Sprintf("%s!A1:C1", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{toCells(store.Header)}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write header to %s: %w", rng, err)
	}
	return nil
}

// Append adds one row for e and returns the updated range.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	rng := c.dataRange()
	vr := &gsheet.ValueRange{Values: [][]any{toCells(store.ToRow(e))}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", rng, err)
	}
	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	c.logger.InfoContext(ctx, "Expense appended to sheet",
		append([]any{"range", ref}, applog.NewFields().WithExpense(e).ToSlice()...)...)
	return ref, nil
}

// AppendAndSave implements store.Store. Rows already in the sheet stay put;
// only the new row is sent.
func (c *Client) AppendAndSave(ctx context.Context, records *core.RecordSet, e core.Expense) (*core.RecordSet, error) {
	if records == nil {
		records = core.NewRecordSet()
	}
	if _, err := c.Append(ctx, e); err != nil {
		return records, err
	}
	records.Append(e)
	return records, nil
}

// Categories implements store.CategoryLister by scanning the Category column.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return store.Suggestions(nil, records), nil
}
