package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

func newTestWorker(t *testing.T) (*AlertWorker, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return NewAlertWorker(repo, services.NewBudgetService(repo)), repo
}

func seedExceededBudget(t *testing.T, repo *storage.SQLiteRepository, userID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.UpsertBudget(ctx, core.Budget{
		UserID:    userID,
		Category:  core.CategoryFood,
		Limit:     core.Money{Cents: 10000},
		Threshold: 80,
	}))
	e := &core.Expense{
		UserID:   userID,
		Title:    "Groceries",
		Amount:   core.Money{Cents: 8500},
		Category: core.CategoryFood,
		Date:     core.Today(),
	}
	require.NoError(t, repo.CreateExpense(ctx, e))
}

func TestHandleExpenseEventRecordsNotification(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()
	seedExceededBudget(t, repo, "u1")

	msg := amqp.NewExpenseEventMessage("u1", "e1", "Food", amqp.ActionCreated)
	require.NoError(t, w.HandleExpenseEvent(ctx, msg))

	list, err := repo.ListNotifications(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, core.CategoryFood, list[0].Category)
	assert.Equal(t, time.Now().Format("2006-01"), list[0].MonthKey)
	assert.Contains(t, list[0].Message, "Food")
}

func TestHandleExpenseEventDeduplicatesWithinMonth(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()
	seedExceededBudget(t, repo, "u1")

	msg := amqp.NewExpenseEventMessage("u1", "e1", "Food", amqp.ActionCreated)
	require.NoError(t, w.HandleExpenseEvent(ctx, msg))
	require.NoError(t, w.HandleExpenseEvent(ctx, msg))
	require.NoError(t, w.HandleExpenseEvent(ctx, amqp.NewExpenseEventMessage("u1", "e2", "Food", amqp.ActionUpdated)))

	list, err := repo.ListNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHandleExpenseEventBelowThreshold(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBudget(ctx, core.Budget{
		UserID:    "u1",
		Category:  core.CategoryFood,
		Limit:     core.Money{Cents: 10000},
		Threshold: 80,
	}))
	e := &core.Expense{
		UserID:   "u1",
		Title:    "Snack",
		Amount:   core.Money{Cents: 500},
		Category: core.CategoryFood,
		Date:     core.Today(),
	}
	require.NoError(t, repo.CreateExpense(ctx, e))

	msg := amqp.NewExpenseEventMessage("u1", e.ID, "Food", amqp.ActionCreated)
	require.NoError(t, w.HandleExpenseEvent(ctx, msg))

	list, err := repo.ListNotifications(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSweepCoversAllBudgetedUsers(t *testing.T) {
	w, repo := newTestWorker(t)
	ctx := context.Background()
	seedExceededBudget(t, repo, "u1")
	seedExceededBudget(t, repo, "u2")

	require.NoError(t, w.Sweep(ctx))

	for _, user := range []string{"u1", "u2"} {
		list, err := repo.ListNotifications(ctx, user)
		require.NoError(t, err)
		assert.Len(t, list, 1, "user %s", user)
	}
}
