package http

import (
	"net/http"

	"spendtrack/internal/core"
)

type goalRequest struct {
	Title        string            `json:"title"`
	TargetAmount core.Money        `json:"targetAmount"`
	Deadline     core.Date         `json:"deadline"`
	Category     core.GoalCategory `json:"category"`
	Priority     core.Priority     `json:"priority"`
	Description  string            `json:"description"`
}

// goalUpdateRequest uses pointers so omitted fields keep their stored
// values.
type goalUpdateRequest struct {
	Title         *string            `json:"title"`
	TargetAmount  *core.Money        `json:"targetAmount"`
	CurrentAmount *core.Money        `json:"currentAmount"`
	Deadline      *core.Date         `json:"deadline"`
	Category      *core.GoalCategory `json:"category"`
	Priority      *core.Priority     `json:"priority"`
	Description   *string            `json:"description"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g := core.Goal{
		UserID:       userID(r),
		Title:        req.Title,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Category:     req.Category,
		Priority:     req.Priority,
		Description:  req.Description,
	}
	if err := s.goals.Create(r.Context(), &g); err != nil {
		writeServiceError(w, r, err, "Goal not found", "Failed to create goal")
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err, "Goal not found", "Failed to list goals")
		return
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := s.goals.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "Goal not found", "Failed to update goal")
		return
	}

	if req.Title != nil {
		g.Title = *req.Title
	}
	if req.TargetAmount != nil {
		g.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		g.CurrentAmount = *req.CurrentAmount
	}
	if req.Deadline != nil {
		g.Deadline = *req.Deadline
	}
	if req.Category != nil {
		g.Category = *req.Category
	}
	if req.Priority != nil {
		g.Priority = *req.Priority
	}
	if req.Description != nil {
		g.Description = *req.Description
	}

	if err := s.goals.Update(r.Context(), g); err != nil {
		writeServiceError(w, r, err, "Goal not found", "Failed to update goal")
		return
	}

	updated, err := s.goals.Get(r.Context(), userID(r), g.ID)
	if err != nil {
		writeServiceError(w, r, err, "Goal not found", "Failed to update goal")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "Goal not found", "Failed to delete goal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted successfully"})
}

type progressRequest struct {
	Amount core.Money `json:"amount"`
}

func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g, err := s.goals.AddProgress(r.Context(), userID(r), r.PathValue("id"), req.Amount)
	if err != nil {
		writeServiceError(w, r, err, "Goal not found", "Failed to add progress")
		return
	}
	writeJSON(w, http.StatusOK, g)
}
