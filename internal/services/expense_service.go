// Package services orchestrates operations across storage and the
// optional AMQP broker. Validation happens here so every transport (HTTP,
// worker) gets the same rules.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// EventPublisher is the broker surface the expense service needs.
// *amqp.Client satisfies it; nil means events are skipped.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// ExpenseService owns the expense lifecycle: validated writes to SQLite
// plus best-effort change events for the alert worker.
type ExpenseService struct {
	storage   *storage.SQLiteRepository
	publisher EventPublisher
}

func NewExpenseService(storage *storage.SQLiteRepository, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		storage:   storage,
		publisher: publisher,
	}
}

// Create validates and saves a new expense, then publishes a change event.
// A missing date defaults to today.
func (s *ExpenseService) Create(ctx context.Context, e *core.Expense) error {
	if e.Date.IsZero() {
		e.Date = core.Today()
	}
	if err := e.Validate(); err != nil {
		return err
	}

	if err := s.storage.CreateExpense(ctx, e); err != nil {
		return fmt.Errorf("save expense: %w", err)
	}

	s.publishEvent(ctx, e.UserID, e.ID, string(e.Category), amqp.ActionCreated)
	return nil
}

// Get returns one owned expense.
func (s *ExpenseService) Get(ctx context.Context, userID, id string) (core.Expense, error) {
	return s.storage.GetExpense(ctx, userID, id)
}

// Update validates and replaces an owned expense, then publishes a change
// event.
func (s *ExpenseService) Update(ctx context.Context, e core.Expense) error {
	if e.Date.IsZero() {
		e.Date = core.Today()
	}
	if err := e.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return err
	}

	s.publishEvent(ctx, e.UserID, e.ID, string(e.Category), amqp.ActionUpdated)
	return nil
}

// Delete removes an owned expense. The expense is read first so the event
// can carry its category.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	e, err := s.storage.GetExpense(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteExpense(ctx, userID, id); err != nil {
		return err
	}

	s.publishEvent(ctx, userID, id, string(e.Category), amqp.ActionDeleted)
	return nil
}

// List returns the user's expenses matching the filter, newest first.
func (s *ExpenseService) List(ctx context.Context, userID string, f core.ExpenseFilter) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx, userID, f)
}

// Stats aggregates the user's expenses matching the filter.
func (s *ExpenseService) Stats(ctx context.Context, userID string, f core.ExpenseFilter) (core.Stats, error) {
	expenses, err := s.storage.ListExpenses(ctx, userID, f)
	if err != nil {
		return core.Stats{}, err
	}
	return core.ComputeStats(expenses), nil
}

// publishEvent emits a change event without failing the request. The
// database write already succeeded; a missing or unhealthy broker only
// delays alert notifications.
func (s *ExpenseService) publishEvent(ctx context.Context, userID, expenseID, category, action string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewExpenseEventMessage(userID, expenseID, category, action)
	if err := s.publisher.PublishExpenseEvent(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"expense_id", expenseID,
			"action", action,
			"error", err)
	}
}
