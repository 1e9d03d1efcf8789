package log

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expense-tracker/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf}).WithComponent(ComponentStorage)
	logger.Info("saved", FieldRecords, 3)
	logger.Debug("hidden")

	out := buf.String()
	for _, want := range []string{"component=storage", "records=3", `msg=saved`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}
}

func TestLogFields(t *testing.T) {
	e := core.Expense{Date: core.LooseDate("2025-03-01"), Category: "Food", Amount: core.LooseAmount("12.50")}
	f := NewFields().
		WithOperation(OpAppend).
		WithExpense(e).
		WithPeriod(&core.Period{Year: 2025, Month: 3}).
		WithError(errors.New("boom")).
		WithError(nil)

	want := map[string]any{
		FieldOperation: OpAppend,
		FieldDate:      "2025-03-01",
		FieldCategory:  "Food",
		FieldAmount:    "12.50",
		FieldYear:      2025,
		FieldMonth:     3,
		FieldError:     "boom",
	}
	for k, v := range want {
		if f[k] != v {
			t.Errorf("field %s = %v, want %v", k, f[k], v)
		}
	}
	if got := len(NewFields().WithPeriod(nil)); got != 0 {
		t.Errorf("overall period added %d fields", got)
	}
	if got := len(f.ToSlice()); got != 2*len(want) {
		t.Errorf("ToSlice() len = %d, want %d", got, 2*len(want))
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Output: &buf})

	var seenID string
	var seenLogger *Logger
	h := RequestLogging(logger, func() string { return "req_1" }, func(*http.Request) string { return "203.0.113.1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID = RequestID(r.Context())
			seenLogger = FromContext(r.Context())
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/expenses?x=1", nil))

	if seenID != "req_1" {
		t.Errorf("RequestID() = %q, want req_1", seenID)
	}
	if seenLogger == nil || seenLogger.component != ComponentHTTP {
		t.Errorf("FromContext() did not return the request logger")
	}
	out := buf.String()
	for _, want := range []string{"HTTP request started", "HTTP request completed", "level=WARN", "status_code=422", "request_id=req_1", "client_ip=203.0.113.1", "path=/expenses"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFromContext_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if l := FromContext(req.Context()); l == nil || l.Logger == nil {
		t.Fatal("FromContext() returned no logger")
	}
	if RequestID(req.Context()) != "" {
		t.Error("RequestID() on a bare context is not empty")
	}
}
