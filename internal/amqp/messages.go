package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"expense-tracker/internal/core"
)

// ExpenseRecordedMessage carries a freshly recorded expense. Date and amount
// travel as the text that was stored so consumers write back the same value.
type ExpenseRecordedMessage struct {
	Date       string    `json:"date"`
	Category   string    `json:"category"`
	Amount     string    `json:"amount"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewExpenseRecordedMessage creates a message for e stamped with the current time.
func NewExpenseRecordedMessage(e core.Expense) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		Date:       e.Date.String(),
		Category:   e.Category,
		Amount:     e.Amount.String(),
		RecordedAt: time.Now(),
	}
}

// Expense rebuilds the domain value.
func (m *ExpenseRecordedMessage) Expense() core.Expense {
	return core.Expense{
		Date:     core.LooseDate(m.Date),
		Category: m.Category,
		Amount:   core.LooseAmount(m.Amount),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseRecordedMessageFromJSON decodes a message. A message with no
// category or amount is rejected.
func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Category == "" || msg.Amount == "" {
		return nil, errors.New("incomplete expense message")
	}
	return &msg, nil
}
