package services

import (
	"context"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/storage"
)

// GoalService manages savings goals and their progress accrual.
type GoalService struct {
	storage *storage.SQLiteRepository
}

func NewGoalService(storage *storage.SQLiteRepository) *GoalService {
	return &GoalService{storage: storage}
}

// Create validates and saves a new goal. Progress starts at zero.
func (s *GoalService) Create(ctx context.Context, g *core.Goal) error {
	g.CurrentAmount = core.Money{}
	g.IsCompleted = false
	g.CompletedAt = nil
	if err := g.Validate(); err != nil {
		return err
	}
	return s.storage.CreateGoal(ctx, g)
}

// List returns the user's goals, newest first.
func (s *GoalService) List(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.storage.ListGoals(ctx, userID)
}

// Get returns one owned goal.
func (s *GoalService) Get(ctx context.Context, userID, id string) (core.Goal, error) {
	return s.storage.GetGoal(ctx, userID, id)
}

// Update validates and replaces an owned goal's fields. Completion state
// is recomputed: raising the target can reopen a completed goal.
func (s *GoalService) Update(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	applyCompletion(&g, time.Now())
	return s.storage.UpdateGoal(ctx, g)
}

// Delete removes an owned goal.
func (s *GoalService) Delete(ctx context.Context, userID, id string) error {
	return s.storage.DeleteGoal(ctx, userID, id)
}

// AddProgress accrues a non-negative amount toward an owned goal and
// returns the updated goal. Reaching the target marks the goal completed
// and stamps the completion time. Zero is accepted as a no-op accrual.
func (s *GoalService) AddProgress(ctx context.Context, userID, id string, amount core.Money) (core.Goal, error) {
	if amount.Cents < 0 {
		return core.Goal{}, core.ErrNegativeProgress
	}

	g, err := s.storage.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, err
	}

	g.CurrentAmount = g.CurrentAmount.Add(amount)
	applyCompletion(&g, time.Now())

	if err := s.storage.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

func applyCompletion(g *core.Goal, now time.Time) {
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		if !g.IsCompleted {
			g.IsCompleted = true
			g.CompletedAt = &now
		}
		return
	}
	g.IsCompleted = false
	g.CompletedAt = nil
}
