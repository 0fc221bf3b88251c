package core

import (
	"fmt"
	"strings"
	"time"
)

// Insight is a derived observation about spending patterns, rendered by the
// client as an "AI" card. The generation here is plain aggregation; there is
// no model behind it.
type Insight struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Action      string  `json:"action,omitempty"`
	Value       float64 `json:"value"`
}

// GenerateInsights derives insights from the full expense set. At minimum
// the highest-spending category produces a warning card; when at least two
// calendar months of data exist, a month-over-month trend card is added.
func GenerateInsights(expenses []Expense, now time.Time) []Insight {
	insights := []Insight{}
	if len(expenses) == 0 {
		return insights
	}

	stats := ComputeStats(expenses)

	var topCategory Category
	var topAmount Money
	for _, c := range Categories() {
		if amt, ok := stats.CategoryStats[c]; ok && amt.Cents > topAmount.Cents {
			topCategory = c
			topAmount = amt
		}
	}
	if topCategory != "" {
		lower := strings.ToLower(string(topCategory))
		insights = append(insights, Insight{
			Type:        "warning",
			Title:       fmt.Sprintf("High %s Spending", topCategory),
			Description: fmt.Sprintf("Your %s expenses are your highest category at $%s.", lower, topAmount),
			Action:      fmt.Sprintf("Set a %s budget", lower),
			Value:       topAmount.Float64(),
		})
	}

	if trend, ok := monthTrend(stats, now); ok {
		kind := "positive"
		desc := fmt.Sprintf("Your spending is down %.1f%% compared to last month.", -trend)
		if trend > 0 {
			kind = "warning"
			desc = fmt.Sprintf("Your spending is up %.1f%% compared to last month.", trend)
		}
		insights = append(insights, Insight{
			Type:        kind,
			Title:       "Monthly Trend",
			Description: desc,
			Value:       trend,
		})
	}

	return insights
}

// monthTrend returns the percent change of this month's spend versus last
// month's. It reports false when last month has no spending, since the
// ratio is undefined.
func monthTrend(stats Stats, now time.Time) (float64, bool) {
	thisKey := MonthKey(Date{Time: now})
	lastKey := MonthKey(Date{Time: MonthStart(now).AddDate(0, 0, -1)})

	last, ok := stats.MonthlyStats[lastKey]
	if !ok || last.Cents == 0 {
		return 0, false
	}
	current := stats.MonthlyStats[thisKey]
	change := (float64(current.Cents) - float64(last.Cents)) / float64(last.Cents) * 100
	return change, true
}
