package http

import (
	"net/http"
	"time"

	"spendtrack/internal/core"
)

type budgetRequest struct {
	Category  core.Category `json:"category"`
	Limit     core.Money    `json:"limit"`
	Threshold int           `json:"threshold"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b := core.Budget{
		UserID:    userID(r),
		Category:  req.Category,
		Limit:     req.Limit,
		Threshold: req.Threshold,
	}
	if err := s.budgets.Set(r.Context(), &b); err != nil {
		writeServiceError(w, r, err, "Budget not found", "Failed to set budget")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.List(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err, "Budget not found", "Failed to list budgets")
		return
	}
	if budgets == nil {
		budgets = []core.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.budgets.Alerts(r.Context(), userID(r), time.Now())
	if err != nil {
		writeServiceError(w, r, err, "Budget not found", "Failed to evaluate budget alerts")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.budgets.Notifications(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err, "Notification not found", "Failed to list notifications")
		return
	}
	if notifications == nil {
		notifications = []core.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}
