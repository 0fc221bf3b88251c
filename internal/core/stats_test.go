package core

import (
	"testing"
)

func exp(title string, cents int64, cat Category, d Date) Expense {
	return Expense{Title: title, Amount: Money{Cents: cents}, Category: cat, Date: d}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalExpenses.Cents != 0 {
		t.Fatalf("expected zero total, got %d", stats.TotalExpenses.Cents)
	}
	if stats.ExpenseCount != 0 {
		t.Fatalf("expected zero count, got %d", stats.ExpenseCount)
	}
	if len(stats.CategoryStats) != 0 || len(stats.MonthlyStats) != 0 {
		t.Fatalf("expected empty maps, got %v / %v", stats.CategoryStats, stats.MonthlyStats)
	}
}

func TestComputeStatsTotals(t *testing.T) {
	expenses := []Expense{
		exp("Lunch", 2500, CategoryFood, NewDate(2025, 3, 10)),
		exp("Groceries", 6000, CategoryFood, NewDate(2025, 3, 12)),
		exp("Bus", 250, CategoryTransportation, NewDate(2025, 4, 1)),
	}
	stats := ComputeStats(expenses)

	if stats.TotalExpenses.Cents != 8750 {
		t.Fatalf("total = %d, want 8750", stats.TotalExpenses.Cents)
	}
	if stats.ExpenseCount != 3 {
		t.Fatalf("count = %d, want 3", stats.ExpenseCount)
	}
	if stats.CategoryStats[CategoryFood].Cents != 8500 {
		t.Fatalf("food = %d, want 8500", stats.CategoryStats[CategoryFood].Cents)
	}
	if stats.CategoryStats[CategoryTransportation].Cents != 250 {
		t.Fatalf("transportation = %d, want 250", stats.CategoryStats[CategoryTransportation].Cents)
	}
	if _, ok := stats.CategoryStats[CategoryTravel]; ok {
		t.Fatalf("category with no expenses must be absent, not zero")
	}

	// March is month index 2, April index 3 (zero-based keys).
	if stats.MonthlyStats["2025-2"].Cents != 8500 {
		t.Fatalf("2025-2 = %d, want 8500", stats.MonthlyStats["2025-2"].Cents)
	}
	if stats.MonthlyStats["2025-3"].Cents != 250 {
		t.Fatalf("2025-3 = %d, want 250", stats.MonthlyStats["2025-3"].Cents)
	}
}

// Category sums must partition the total: summing categoryStats always
// reproduces totalExpenses.
func TestComputeStatsPartition(t *testing.T) {
	expenses := []Expense{
		exp("a", 100, CategoryFood, NewDate(2025, 1, 1)),
		exp("b", 321, CategoryBills, NewDate(2025, 1, 2)),
		exp("c", 999, CategoryTravel, NewDate(2025, 2, 3)),
		exp("d", 1, CategoryFood, NewDate(2025, 2, 4)),
	}
	stats := ComputeStats(expenses)

	var sum int64
	for _, amt := range stats.CategoryStats {
		sum += amt.Cents
	}
	if sum != stats.TotalExpenses.Cents {
		t.Fatalf("category sums %d != total %d", sum, stats.TotalExpenses.Cents)
	}
}

func TestFilterExpenses(t *testing.T) {
	expenses := []Expense{
		exp("early", 100, CategoryFood, NewDate(2025, 1, 5)),
		exp("mid", 200, CategoryBills, NewDate(2025, 2, 10)),
		exp("late", 300, CategoryFood, NewDate(2025, 3, 15)),
	}

	cases := []struct {
		name   string
		filter ExpenseFilter
		want   []string
	}{
		{"no filter", ExpenseFilter{}, []string{"early", "mid", "late"}},
		{"category All equals no filter", ExpenseFilter{Category: "All"}, []string{"early", "mid", "late"}},
		{"category exact", ExpenseFilter{Category: "Food"}, []string{"early", "late"}},
		{"range inclusive both ends", ExpenseFilter{Start: NewDate(2025, 1, 5), End: NewDate(2025, 2, 10)}, []string{"early", "mid"}},
		{"open start", ExpenseFilter{End: NewDate(2025, 2, 10)}, []string{"early", "mid"}},
		{"open end", ExpenseFilter{Start: NewDate(2025, 2, 10)}, []string{"mid", "late"}},
		{"category and range", ExpenseFilter{Category: "Food", Start: NewDate(2025, 2, 1)}, []string{"late"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterExpenses(expenses, tc.filter)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d expenses, want %d", len(got), len(tc.want))
			}
			for i, title := range tc.want {
				if got[i].Title != title {
					t.Fatalf("position %d: got %q, want %q", i, got[i].Title, title)
				}
			}
		})
	}
}

func TestSortByDateDesc(t *testing.T) {
	expenses := []Expense{
		exp("old", 1, CategoryFood, NewDate(2025, 1, 1)),
		exp("new", 1, CategoryFood, NewDate(2025, 6, 1)),
		exp("mid", 1, CategoryFood, NewDate(2025, 3, 1)),
	}
	SortByDateDesc(expenses)
	want := []string{"new", "mid", "old"}
	for i, title := range want {
		if expenses[i].Title != title {
			t.Fatalf("position %d: got %q, want %q", i, expenses[i].Title, title)
		}
	}
}

func TestMonthKeyZeroBased(t *testing.T) {
	if key := MonthKey(NewDate(2025, 1, 15)); key != "2025-0" {
		t.Fatalf("january key = %q, want 2025-0", key)
	}
	if key := MonthKey(NewDate(2025, 12, 31)); key != "2025-11" {
		t.Fatalf("december key = %q, want 2025-11", key)
	}
}
