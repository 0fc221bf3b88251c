package amqp

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{15, 30 * time.Second}, // capped at 30s
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "connection refused",
			err:      errors.New("connection refused"),
			expected: true,
		},
		{
			name:     "closed connection",
			err:      errors.New("connection closed"),
			expected: true,
		},
		{
			name:     "EOF",
			err:      errors.New("unexpected EOF"),
			expected: true,
		},
		{
			name:     "broken pipe",
			err:      errors.New("broken pipe"),
			expected: true,
		},
		{
			name:     "closed network connection",
			err:      errors.New("use of closed network connection"),
			expected: true,
		},
		{
			name:     "application error",
			err:      errors.New("invalid input"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isConnectionError(tt.err)
			if result != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestNewExpenseEventMessage(t *testing.T) {
	msg := NewExpenseEventMessage("u1", "e42", "Food", ActionCreated)

	if msg.UserID != "u1" {
		t.Errorf("UserID = %v, want u1", msg.UserID)
	}
	if msg.ExpenseID != "e42" {
		t.Errorf("ExpenseID = %v, want e42", msg.ExpenseID)
	}
	if msg.Category != "Food" {
		t.Errorf("Category = %v, want Food", msg.Category)
	}
	if msg.Action != ActionCreated {
		t.Errorf("Action = %v, want %v", msg.Action, ActionCreated)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestExpenseEventMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &ExpenseEventMessage{
		UserID:    "u1",
		ExpenseID: "e42",
		Category:  "Travel",
		Action:    ActionDeleted,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(jsonBytes), `"action":"deleted"`) {
		t.Errorf("JSON missing action field: %s", jsonBytes)
	}

	parsed, err := ExpenseEventMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ExpenseEventMessageFromJSON() error = %v", err)
	}

	if parsed.UserID != msg.UserID {
		t.Errorf("Parsed UserID = %v, want %v", parsed.UserID, msg.UserID)
	}
	if parsed.ExpenseID != msg.ExpenseID {
		t.Errorf("Parsed ExpenseID = %v, want %v", parsed.ExpenseID, msg.ExpenseID)
	}
	if parsed.Category != msg.Category {
		t.Errorf("Parsed Category = %v, want %v", parsed.Category, msg.Category)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestExpenseEventMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"userId": 42}`)

	if _, err := ExpenseEventMessageFromJSON(invalidJSON); err == nil {
		t.Error("ExpenseEventMessageFromJSON() should fail with invalid JSON")
	}
}
