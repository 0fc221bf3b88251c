// Package worker turns expense change events into persisted budget alert
// notifications. It consumes the AMQP event stream and additionally
// sweeps all budgeted users on an interval, so a lost message only delays
// a notification instead of dropping it.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

type AlertWorker struct {
	storage *storage.SQLiteRepository
	budgets *services.BudgetService
}

func NewAlertWorker(st *storage.SQLiteRepository, budgets *services.BudgetService) *AlertWorker {
	return &AlertWorker{
		storage: st,
		budgets: budgets,
	}
}

// HandleExpenseEvent re-evaluates the affected user's budgets after an
// expense change. The event carries only identifiers; current state comes
// from the database, so redelivered or out-of-order events are harmless.
func (w *AlertWorker) HandleExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	slog.InfoContext(ctx, "Processing expense event",
		"expense_id", msg.ExpenseID,
		"action", msg.Action,
		"category", msg.Category)

	return w.evaluateUser(ctx, msg.UserID, time.Now())
}

// Sweep re-evaluates budgets for every user that has at least one budget.
// It is the recovery path for missed events and for alerts that first trip
// without any write (a budget lowered out-of-band, a month rollover).
func (w *AlertWorker) Sweep(ctx context.Context) error {
	users, err := w.storage.ListBudgetUsers(ctx)
	if err != nil {
		return fmt.Errorf("list budget users: %w", err)
	}

	now := time.Now()
	errorCount := 0
	for _, userID := range users {
		if err := w.evaluateUser(ctx, userID, now); err != nil {
			slog.ErrorContext(ctx, "Failed to evaluate budgets", "user", userID, "error", err)
			errorCount++
		}
	}

	if len(users) > 0 {
		slog.InfoContext(ctx, "Alert sweep completed",
			"users", len(users),
			"errors", errorCount)
	}
	return nil
}

// RunPeriodicSweep sweeps once immediately and then on every tick until
// ctx is cancelled.
func (w *AlertWorker) RunPeriodicSweep(ctx context.Context, interval time.Duration) error {
	if err := w.Sweep(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial alert sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "Alert sweep failed", "error", err)
			}
		}
	}
}

func (w *AlertWorker) evaluateUser(ctx context.Context, userID string, now time.Time) error {
	alerts, err := w.budgets.Alerts(ctx, userID, now)
	if err != nil {
		return fmt.Errorf("evaluate budgets: %w", err)
	}

	monthKey := now.Format("2006-01")
	for _, a := range alerts {
		if !a.IsExceeded {
			continue
		}

		n := &core.Notification{
			UserID:   userID,
			Category: a.Category,
			MonthKey: monthKey,
			Message:  alertMessage(a),
		}
		created, err := w.storage.CreateNotification(ctx, n)
		if err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		if created {
			slog.InfoContext(ctx, "Budget alert recorded",
				"user", userID,
				"category", a.Category,
				"band", a.Band,
				"spent_cents", a.CurrentSpent.Cents,
				"limit_cents", a.BudgetLimit.Cents)
		}
	}
	return nil
}

func alertMessage(a core.BudgetAlert) string {
	if a.Band == core.BandCritical {
		return fmt.Sprintf("Your %s spending of $%s has exceeded the $%s budget", a.Category, a.CurrentSpent, a.BudgetLimit)
	}
	return fmt.Sprintf("Your %s spending of $%s reached %.0f%% of the $%s budget", a.Category, a.CurrentSpent, a.Percentage(), a.BudgetLimit)
}
