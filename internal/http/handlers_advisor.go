package http

import (
	"net/http"

	"spendtrack/internal/advisor"
	"spendtrack/internal/core"
)

type chatRequest struct {
	Message string `json:"message"`
}

// handleAdvisorChat answers a free-text question with a canned reply
// chosen by keyword, filling in the user's real spending aggregates.
func (s *Server) handleAdvisorChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stats, err := s.expenses.Stats(r.Context(), userID(r), core.ExpenseFilter{})
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to answer")
		return
	}

	sc := advisor.SpendingContext{TotalSpent: stats.TotalExpenses}
	for cat, amount := range stats.CategoryStats {
		if amount.Cents > sc.TopAmount.Cents {
			sc.TopCategory = cat
			sc.TopAmount = amount
		}
	}

	topic := advisor.Classify(req.Message)
	writeJSON(w, http.StatusOK, advisor.Respond(topic, req.Message, sc))
}
