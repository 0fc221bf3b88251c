package core

import (
	"sort"
	"strconv"
	"time"
)

// Stats is the derived aggregate over a user's expenses. It is never
// persisted: every read recomputes it from the current store snapshot, so
// it is always consistent with the store at read time.
type Stats struct {
	TotalExpenses Money              `json:"totalExpenses"`
	ExpenseCount  int                `json:"expenseCount"`
	CategoryStats map[Category]Money `json:"categoryStats"`
	MonthlyStats  map[string]Money   `json:"monthlyStats"`
}

// MonthKey renders the "<year>-<month>" aggregation key. The month index is
// zero-based, mirroring the behavior of the original client contract.
func MonthKey(d Date) string {
	return strconv.Itoa(d.Year()) + "-" + strconv.Itoa(int(d.Month())-1)
}

// ComputeStats aggregates totals, category sums, and monthly sums over the
// given expenses. Categories and months with no expenses are absent from the
// maps, not present with zero.
func ComputeStats(expenses []Expense) Stats {
	stats := Stats{
		ExpenseCount:  len(expenses),
		CategoryStats: make(map[Category]Money),
		MonthlyStats:  make(map[string]Money),
	}
	for _, e := range expenses {
		stats.TotalExpenses = stats.TotalExpenses.Add(e.Amount)
		stats.CategoryStats[e.Category] = stats.CategoryStats[e.Category].Add(e.Amount)
		key := MonthKey(e.Date)
		stats.MonthlyStats[key] = stats.MonthlyStats[key].Add(e.Amount)
	}
	return stats
}

// ExpenseFilter narrows a listing before aggregation. Category "All" (or
// empty) means no category filter; zero bounds mean unbounded on that side.
type ExpenseFilter struct {
	Category string
	Start    Date
	End      Date
}

// Matches applies the filter with inclusive comparisons at both ends of the
// date range.
func (f ExpenseFilter) Matches(e Expense) bool {
	if f.Category != "" && f.Category != "All" && string(e.Category) != f.Category {
		return false
	}
	if !f.Start.IsZero() && e.Date.Before(f.Start.Time) {
		return false
	}
	if !f.End.IsZero() && e.Date.After(f.End.Time) {
		return false
	}
	return true
}

// FilterExpenses returns the subset of expenses matching the filter,
// preserving order.
func FilterExpenses(expenses []Expense, f ExpenseFilter) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// MonthStart returns the first instant of the month containing t, in
// server-local time. The current month window for budget alerts is
// [MonthStart(now), now].
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SortByDateDesc orders expenses newest first, the listing order the
// client expects.
func SortByDateDesc(expenses []Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date.Time)
	})
}
