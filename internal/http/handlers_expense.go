package http

import (
	"errors"
	"net/http"
	"time"

	"spendtrack/internal/advisor"
	"spendtrack/internal/charts"
	"spendtrack/internal/core"
	"spendtrack/internal/export"
)

type expenseRequest struct {
	Title       string        `json:"title"`
	Amount      core.Money    `json:"amount"`
	Category    core.Category `json:"category"`
	Description string        `json:"description"`
	Date        core.Date     `json:"date"`
}

func (req expenseRequest) toExpense(userID string) core.Expense {
	return core.Expense{
		UserID:      userID,
		Title:       req.Title,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}
}

func filterFromQuery(r *http.Request) (core.ExpenseFilter, bool) {
	q := r.URL.Query()
	f := core.ExpenseFilter{Category: q.Get("category")}

	if v := q.Get("startDate"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return f, false
		}
		f.Start = core.Date{Time: t}
	}
	if v := q.Get("endDate"); v != "" {
		t, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return f, false
		}
		f.End = core.Date{Time: t}
	}
	return f, true
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e := req.toExpense(userID(r))
	if err := s.expenses.Create(r.Context(), &e); err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to create expense")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	f, ok := filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date filter")
		return
	}

	expenses, err := s.expenses.List(r.Context(), userID(r), f)
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.expenses.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to get expense")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	e := req.toExpense(userID(r))
	e.ID = r.PathValue("id")
	if err := s.expenses.Update(r.Context(), e); err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to update expense")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to delete expense")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	f, ok := filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date filter")
		return
	}

	stats, err := s.expenses.Stats(r.Context(), userID(r), f)
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context(), userID(r), core.ExpenseFilter{})
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to generate insights")
		return
	}
	writeJSON(w, http.StatusOK, core.GenerateInsights(expenses, time.Now()))
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	f, ok := filterFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid date filter")
		return
	}

	expenses, err := s.expenses.List(r.Context(), userID(r), f)
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to generate predictions")
		return
	}

	predictions := s.predictor.Predict(expenses, time.Now())
	if predictions == nil {
		predictions = []core.Prediction{}
	}
	writeJSON(w, http.StatusOK, predictions)
}

func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	// The uploaded receipt image is accepted but not inspected; a real
	// deployment would hand it to an OCR service here.
	if err := r.ParseMultipartForm(10 << 20); err == nil {
		if file, _, ferr := r.FormFile("receipt"); ferr == nil {
			_ = file.Close()
		}
	}
	writeJSON(w, http.StatusOK, s.scanner.Scan(time.Now()))
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
}

func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	parsed := advisor.ParseTranscript(req.Transcript)
	if parsed.Amount.Cents <= 0 {
		writeError(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	}
	writeJSON(w, http.StatusOK, parsed)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "Sheets export not configured")
		return
	}

	expenses, err := s.expenses.List(r.Context(), userID(r), core.ExpenseFilter{})
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to export expenses")
		return
	}

	count, err := s.exporter.Export(r.Context(), expenses)
	if err != nil {
		if errors.Is(err, export.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "Sheets export not configured")
			return
		}
		writeServiceError(w, r, err, "Expense not found", "Failed to export expenses")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Expenses exported successfully",
		"exported": count,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	stats, err := s.expenses.Stats(r.Context(), userID(r), core.ExpenseFilter{})
	if err != nil {
		writeServiceError(w, r, err, "Expense not found", "Failed to render chart")
		return
	}

	var png []byte
	switch r.URL.Query().Get("type") {
	case "", "categories":
		png, err = s.charts.CategoryPie(stats)
	case "monthly":
		png, err = s.charts.MonthlyBars(stats)
	default:
		writeError(w, http.StatusBadRequest, "Invalid chart type")
		return
	}
	if err != nil {
		if errors.Is(err, charts.ErrNoData) {
			writeError(w, http.StatusNotFound, "No expense data to chart")
			return
		}
		writeServiceError(w, r, err, "Expense not found", "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
