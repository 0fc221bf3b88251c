package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by expense events. The worker reacts to all three the
// same way (re-evaluate the user's budgets), but the action is kept on the
// wire for logging and future consumers.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ExpenseEventMessage announces that an expense changed. It carries only
// identifiers; consumers fetch current state from the database, so a stale
// or redelivered message is harmless.
type ExpenseEventMessage struct {
	UserID    string    `json:"userId"`
	ExpenseID string    `json:"expenseId"`
	Category  string    `json:"category"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseEventMessage(userID, expenseID, category, action string) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		UserID:    userID,
		ExpenseID: expenseID,
		Category:  category,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
