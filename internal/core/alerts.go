package core

import "time"

// AlertBand is the qualitative severity derived from percentage-of-budget
// spent.
type AlertBand string

const (
	BandOK       AlertBand = "ok"
	BandWarning  AlertBand = "warning"
	BandCritical AlertBand = "critical"
)

// BudgetAlert reports how a single budget stands against the current
// month's spending. One alert exists per budget row; a category without a
// budget produces no alert regardless of spending.
type BudgetAlert struct {
	Category       Category  `json:"category"`
	BudgetLimit    Money     `json:"budgetLimit"`
	CurrentSpent   Money     `json:"currentSpent"`
	AlertThreshold int       `json:"alertThreshold"`
	IsExceeded     bool      `json:"isExceeded"`
	Band           AlertBand `json:"band"`
}

// Percentage returns spent/limit*100. Limit is constrained positive by
// Budget.Validate, so the division is safe in valid state.
func (a BudgetAlert) Percentage() float64 {
	if a.BudgetLimit.Cents == 0 {
		return 0
	}
	return float64(a.CurrentSpent.Cents) / float64(a.BudgetLimit.Cents) * 100
}

// Notification is a persisted record of a budget crossing its threshold,
// written by the alert worker. At most one exists per (user, category,
// month).
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Category  Category  `json:"category"`
	MonthKey  string    `json:"month"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// EvaluateBudget computes the alert for one budget given the user's
// expenses restricted to the current month window. Only expenses in the
// budget's category contribute. isExceeded uses >=, not >: spending exactly
// at the threshold trips the alert.
func EvaluateBudget(b Budget, monthExpenses []Expense) BudgetAlert {
	var spent Money
	for _, e := range monthExpenses {
		if e.Category == b.Category {
			spent = spent.Add(e.Amount)
		}
	}

	alert := BudgetAlert{
		Category:       b.Category,
		BudgetLimit:    b.Limit,
		CurrentSpent:   spent,
		AlertThreshold: b.Threshold,
	}
	pct := alert.Percentage()
	alert.IsExceeded = pct >= float64(b.Threshold)

	// Band boundaries are inclusive on the lower bound: >=100 critical,
	// >=threshold (the budget's own, not a hardcoded 80) warning, else ok.
	switch {
	case pct >= 100:
		alert.Band = BandCritical
	case pct >= float64(b.Threshold):
		alert.Band = BandWarning
	default:
		alert.Band = BandOK
	}
	return alert
}
