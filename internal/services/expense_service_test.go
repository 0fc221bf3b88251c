package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/amqp"
	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

type capturingPublisher struct {
	events []*amqp.ExpenseEventMessage
	err    error
}

func (p *capturingPublisher) PublishExpenseEvent(_ context.Context, msg *amqp.ExpenseEventMessage) error {
	p.events = append(p.events, msg)
	return p.err
}

func newTestStorage(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestExpenseServiceCreatePublishesEvent(t *testing.T) {
	repo := newTestStorage(t)
	pub := &capturingPublisher{}
	svc := NewExpenseService(repo, pub)
	ctx := context.Background()

	e := &core.Expense{
		UserID:   "u1",
		Title:    "Lunch",
		Amount:   core.Money{Cents: 2500},
		Category: core.CategoryFood,
	}
	require.NoError(t, svc.Create(ctx, e))
	require.NotEmpty(t, e.ID)
	// Missing date defaults to today.
	assert.False(t, e.Date.IsZero())

	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.ActionCreated, pub.events[0].Action)
	assert.Equal(t, e.ID, pub.events[0].ExpenseID)
	assert.Equal(t, "Food", pub.events[0].Category)
}

func TestExpenseServiceCreateValidates(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	err := svc.Create(ctx, &core.Expense{
		UserID:   "u1",
		Title:    "",
		Amount:   core.Money{Cents: 100},
		Category: core.CategoryFood,
	})
	assert.ErrorIs(t, err, core.ErrTitleRequired)

	err = svc.Create(ctx, &core.Expense{
		UserID:   "u1",
		Title:    "Lunch",
		Amount:   core.Money{Cents: 0},
		Category: core.CategoryFood,
	})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	err = svc.Create(ctx, &core.Expense{
		UserID:   "u1",
		Title:    "Lunch",
		Amount:   core.Money{Cents: 100},
		Category: core.Category("Snacks"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidCategory)
}

func TestExpenseServicePublishFailureDoesNotFailRequest(t *testing.T) {
	repo := newTestStorage(t)
	pub := &capturingPublisher{err: assert.AnError}
	svc := NewExpenseService(repo, pub)
	ctx := context.Background()

	e := &core.Expense{
		UserID:   "u1",
		Title:    "Lunch",
		Amount:   core.Money{Cents: 2500},
		Category: core.CategoryFood,
	}
	require.NoError(t, svc.Create(ctx, e))

	// The expense is still persisted.
	got, err := svc.Get(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
}

func TestExpenseServiceDeleteEventCarriesCategory(t *testing.T) {
	repo := newTestStorage(t)
	pub := &capturingPublisher{}
	svc := NewExpenseService(repo, pub)
	ctx := context.Background()

	e := &core.Expense{
		UserID:   "u1",
		Title:    "Flight",
		Amount:   core.Money{Cents: 45000},
		Category: core.CategoryTravel,
	}
	require.NoError(t, svc.Create(ctx, e))
	require.NoError(t, svc.Delete(ctx, "u1", e.ID))

	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.ActionDeleted, pub.events[1].Action)
	assert.Equal(t, "Travel", pub.events[1].Category)

	_, err := svc.Get(ctx, "u1", e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestExpenseServiceStats(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	for _, e := range []*core.Expense{
		{UserID: "u1", Title: "Lunch", Amount: core.Money{Cents: 2500}, Category: core.CategoryFood, Date: core.NewDate(2025, 3, 10)},
		{UserID: "u1", Title: "Bus", Amount: core.Money{Cents: 300}, Category: core.CategoryTransportation, Date: core.NewDate(2025, 3, 11)},
		{UserID: "u2", Title: "Other user", Amount: core.Money{Cents: 9999}, Category: core.CategoryFood, Date: core.NewDate(2025, 3, 10)},
	} {
		require.NoError(t, svc.Create(ctx, e))
	}

	stats, err := svc.Stats(ctx, "u1", core.ExpenseFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2800), stats.TotalExpenses.Cents)
	assert.Equal(t, 2, stats.ExpenseCount)
	assert.Equal(t, int64(2500), stats.CategoryStats[core.CategoryFood].Cents)
	// Month keys use a zero-based month index.
	assert.Equal(t, int64(2800), stats.MonthlyStats["2025-2"].Cents)
}
