package http

import (
	"errors"
	"html/template"
	"net/http"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
)

// MsgInvalidEntry is shown when an entry fails validation.
const MsgInvalidEntry = "Please enter a valid category and amount."

// MsgRecorded prefixes the confirmation of a saved entry.
const MsgRecorded = "Expense Added Successfully!"

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrNonPositiveAmount)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	logger := applog.FromContext(ctx)
	e := ParseExpenseForm(r.Form, s.now())

	if err := s.svc.Record(ctx, e); err != nil {
		if isValidationError(err) {
			UnprocessableEntityError(MsgInvalidEntry).Write(w)
			return
		}
		logger.ErrorContext(ctx, "Expense save failed",
			applog.NewFields().WithOperation(applog.OpAppend).WithExpense(e).WithError(err).ToSlice()...)
		InternalServerError("The expense could not be saved (ref " + applog.RequestID(ctx) + ").").Write(w)
		return
	}

	// Every cached view may include the new record.
	s.summaries.Purge()

	NewHTMXResponse().
		TriggerExpenseRecorded().
		BodyHTML(`<div class="success">` + MsgRecorded + ` ` +
			template.HTMLEscapeString(e.Date.String()) + ` · ` +
			template.HTMLEscapeString(e.Category) + ` · ` +
			template.HTMLEscapeString(core.FormatAmount(e.Amount.Decimal, s.currency)) + `</div>`).
		Write(w)
}
