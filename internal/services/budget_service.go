package services

import (
	"context"
	"fmt"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// BudgetService manages per-category budgets and evaluates them against
// current-month spending.
type BudgetService struct {
	storage *storage.SQLiteRepository
}

func NewBudgetService(storage *storage.SQLiteRepository) *BudgetService {
	return &BudgetService{storage: storage}
}

// Set validates and upserts the budget for (user, category). A zero
// threshold takes the default, written back so the caller sees the
// stored values.
func (s *BudgetService) Set(ctx context.Context, b *core.Budget) error {
	if b.Threshold == 0 {
		b.Threshold = core.DefaultAlertThreshold
	}
	if err := b.Validate(); err != nil {
		return err
	}
	return s.storage.UpsertBudget(ctx, *b)
}

// List returns all the user's budgets.
func (s *BudgetService) List(ctx context.Context, userID string) ([]core.Budget, error) {
	return s.storage.ListBudgets(ctx, userID)
}

// Alerts evaluates every budget the user has against spending in the
// current month, computed fresh on each call. The month window runs from
// the first of the month (server-local) to now; a budget with no spending
// still yields an alert with zero spent.
func (s *BudgetService) Alerts(ctx context.Context, userID string, now time.Time) ([]core.BudgetAlert, error) {
	budgets, err := s.storage.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	alerts := make([]core.BudgetAlert, 0, len(budgets))
	if len(budgets) == 0 {
		return alerts, nil
	}

	monthExpenses, err := s.storage.ListExpensesSince(ctx, userID, core.MonthStart(now))
	if err != nil {
		return nil, fmt.Errorf("list month expenses: %w", err)
	}

	for _, b := range budgets {
		alerts = append(alerts, core.EvaluateBudget(b, monthExpenses))
	}
	return alerts, nil
}

// Notifications returns the user's persisted alert notifications, newest
// first.
func (s *BudgetService) Notifications(ctx context.Context, userID string) ([]core.Notification, error) {
	return s.storage.ListNotifications(ctx, userID)
}
