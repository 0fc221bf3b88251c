package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/core"
)

func newTestGoal(userID string) *core.Goal {
	return &core.Goal{
		UserID:       userID,
		Title:        "Vacation",
		TargetAmount: core.Money{Cents: 100000},
		Deadline:     core.NewDate(2026, 6, 1),
		Category:     core.GoalSavings,
		Priority:     core.PriorityMedium,
	}
}

func TestGoalServiceCreateValidates(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewGoalService(repo)
	ctx := context.Background()

	g := newTestGoal("u1")
	g.TargetAmount = core.Money{}
	assert.ErrorIs(t, svc.Create(ctx, g), core.ErrInvalidTarget)

	g = newTestGoal("u1")
	g.Deadline = core.Date{}
	assert.ErrorIs(t, svc.Create(ctx, g), core.ErrInvalidDeadline)

	g = newTestGoal("u1")
	g.Priority = core.Priority("urgent")
	assert.ErrorIs(t, svc.Create(ctx, g), core.ErrInvalidPriority)
}

func TestGoalServiceProgressAccrual(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewGoalService(repo)
	ctx := context.Background()

	g := newTestGoal("u1")
	require.NoError(t, svc.Create(ctx, g))

	updated, err := svc.AddProgress(ctx, "u1", g.ID, core.Money{Cents: 40000})
	require.NoError(t, err)
	assert.Equal(t, int64(40000), updated.CurrentAmount.Cents)
	assert.False(t, updated.IsCompleted)

	// Crossing the target completes the goal and stamps the time.
	updated, err = svc.AddProgress(ctx, "u1", g.ID, core.Money{Cents: 60000})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), updated.CurrentAmount.Cents)
	assert.True(t, updated.IsCompleted)
	require.NotNil(t, updated.CompletedAt)

	// The completion persisted.
	got, err := svc.Get(ctx, "u1", g.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
}

func TestGoalServiceProgressRejectsNegative(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewGoalService(repo)
	ctx := context.Background()

	g := newTestGoal("u1")
	require.NoError(t, svc.Create(ctx, g))

	_, err := svc.AddProgress(ctx, "u1", g.ID, core.Money{Cents: -500})
	assert.ErrorIs(t, err, core.ErrNegativeProgress)

	// Zero accrues nothing but is not an error.
	updated, err := svc.AddProgress(ctx, "u1", g.ID, core.Money{Cents: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.CurrentAmount.Cents)
	assert.False(t, updated.IsCompleted)
}

func TestGoalServiceUpdateReopensOnRaisedTarget(t *testing.T) {
	repo := newTestStorage(t)
	svc := NewGoalService(repo)
	ctx := context.Background()

	g := newTestGoal("u1")
	g.TargetAmount = core.Money{Cents: 50000}
	require.NoError(t, svc.Create(ctx, g))

	done, err := svc.AddProgress(ctx, "u1", g.ID, core.Money{Cents: 50000})
	require.NoError(t, err)
	require.True(t, done.IsCompleted)

	done.TargetAmount = core.Money{Cents: 200000}
	require.NoError(t, svc.Update(ctx, done))

	got, err := svc.Get(ctx, "u1", g.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCompleted)
	assert.Nil(t, got.CompletedAt)
}
