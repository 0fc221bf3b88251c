package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date. The time component is kept so the current
	// month window can use inclusive comparisons, but JSON input/output
	// works on day granularity.
	Date struct {
		time.Time
	}

	// Money is an amount in cents. All arithmetic happens on integers;
	// the JSON surface is a plain decimal number.
	Money struct {
		Cents int64
	}

	// Expense is a single recorded outflow, always owned by one user.
	Expense struct {
		ID          string   `json:"id"`
		UserID      string   `json:"-"`
		Title       string   `json:"title"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Description string   `json:"description,omitempty"`
		Date        Date     `json:"date"`
	}

	// Budget is a per-category monthly ceiling with an alert threshold
	// percentage. Exactly one row exists per (user, category) pair.
	Budget struct {
		UserID    string   `json:"-"`
		Category  Category `json:"category"`
		Limit     Money    `json:"limit"`
		Threshold int      `json:"threshold"`
	}

	// Goal is a savings target the user accrues progress against.
	Goal struct {
		ID            string       `json:"id"`
		UserID        string       `json:"-"`
		Title         string       `json:"title"`
		TargetAmount  Money        `json:"targetAmount"`
		CurrentAmount Money        `json:"currentAmount"`
		Deadline      Date         `json:"deadline"`
		Category      GoalCategory `json:"category"`
		Priority      Priority     `json:"priority"`
		Description   string       `json:"description,omitempty"`
		IsCompleted   bool         `json:"isCompleted"`
		CompletedAt   *time.Time   `json:"completedAt,omitempty"`
		CreatedAt     time.Time    `json:"createdAt"`
	}
)

// DefaultAlertThreshold is applied when a budget is set without an explicit
// threshold percentage.
const DefaultAlertThreshold = 80

var (
	ErrTitleRequired    = errors.New("Title is required")
	ErrInvalidAmount    = errors.New("Amount must be greater than 0")
	ErrInvalidCategory  = errors.New("Invalid category")
	ErrInvalidLimit     = errors.New("Budget limit must be greater than 0")
	ErrInvalidThreshold = errors.New("Threshold must be between 1 and 100")
	ErrInvalidTarget    = errors.New("Target amount must be greater than 0")
	ErrInvalidDeadline  = errors.New("Valid deadline is required")
	ErrInvalidPriority  = errors.New("Invalid priority")
	ErrNegativeProgress = errors.New("Amount must be a positive number")
	ErrInvalidDate      = errors.New("Valid date is required")
)

// NewDate builds a Date at midnight server-local time, matching how the
// month window is computed.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)}
}

// Today returns the current calendar date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// Validate checks each rule in order and returns the first violation, so
// callers can surface a single human-readable message.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrTitleRequired
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if !b.Category.Valid() {
		return ErrInvalidCategory
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidLimit
	}
	if b.Threshold < 1 || b.Threshold > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrTitleRequired
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	if !g.Category.Valid() {
		return ErrInvalidCategory
	}
	if !g.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}
