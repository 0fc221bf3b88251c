// Package advisor implements the rule-based "AI" features: the chat
// advisor, voice transcript parsing, and the receipt-scan simulation. There
// is no model anywhere in here: classification is keyword matching and the
// replies come from a template table, which keeps every piece testable in
// isolation from the aggregation core.
package advisor

import (
	"fmt"
	"strings"

	"spendtrack/internal/core"
)

// Topic is the advisor's classification of a chat message.
type Topic string

const (
	TopicAnalysis  Topic = "analysis"
	TopicSaving    Topic = "saving"
	TopicReduction Topic = "reduction"
	TopicBudgeting Topic = "budgeting"
	TopicGreeting  Topic = "greeting"
	TopicFallback  Topic = "fallback"
)

// topicKeywords maps each topic to its trigger words. Order matters:
// earlier topics win when a message matches several.
var topicKeywords = []struct {
	topic    Topic
	keywords []string
}{
	{TopicAnalysis, []string{"spending", "pattern", "analyze"}},
	{TopicSaving, []string{"saving", "save", "tips"}},
	{TopicReduction, []string{"reduce", "cut", "lower"}},
	{TopicBudgeting, []string{"budget", "goal"}},
	{TopicGreeting, []string{"hello", "hi", "help"}},
}

// Classify maps a free-text message to a reply topic. Matching is
// case-insensitive substring search, nothing more.
func Classify(message string) Topic {
	lower := strings.ToLower(message)
	for _, entry := range topicKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.topic
			}
		}
	}
	return TopicFallback
}

// Reply is a canned advisor response plus follow-up suggestions for the
// chat UI.
type Reply struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// SpendingContext carries the aggregates some templates interpolate.
type SpendingContext struct {
	TotalSpent  core.Money
	TopCategory core.Category
	TopAmount   core.Money
}

// Respond renders the template for a topic, filling in spending aggregates
// where the template uses them.
func Respond(topic Topic, message string, sc SpendingContext) Reply {
	switch topic {
	case TopicAnalysis:
		top := "n/a"
		if sc.TopCategory != "" {
			top = fmt.Sprintf("%s ($%s)", sc.TopCategory, sc.TopAmount)
		}
		return Reply{
			Response: fmt.Sprintf(
				"Spending analysis: you have spent $%s in total. Your top category is %s.",
				sc.TotalSpent, top),
			Suggestions: []string{"How to reduce my top category?", "Set budget alerts", "Show saving opportunities"},
		}
	case TopicSaving:
		return Reply{
			Response: "Saving tips: plan meals for the week, combine errands into one trip, " +
				"and wait 24 hours before non-essential purchases. Automating a transfer to " +
				"savings right after payday is the most reliable habit.",
			Suggestions: []string{"Create a savings challenge", "Track my progress", "More specific tips"},
		}
	case TopicReduction:
		return Reply{
			Response: "Expense reduction: start by cancelling unused subscriptions and " +
				"negotiating recurring bills, then apply the 50/30/20 rule to what remains. " +
				"A 15% reduction over three months is a realistic target.",
			Suggestions: []string{"Help me negotiate bills", "Create expense reduction plan", "Track my savings"},
		}
	case TopicBudgeting:
		emergency := core.Money{Cents: sc.TotalSpent.Cents * 3}
		monthly := core.Money{Cents: sc.TotalSpent.Cents / 5}
		return Reply{
			Response: fmt.Sprintf(
				"Budgeting: allocate 50%% to needs, 30%% to wants, 20%% to savings. "+
					"Based on your spending, aim for an emergency fund of $%s and a monthly "+
					"savings target of $%s.", emergency, monthly),
			Suggestions: []string{"Set up automatic savings", "Create emergency fund", "Track budget progress"},
		}
	case TopicGreeting:
		return Reply{
			Response: "Hello! I can analyze your spending patterns, suggest saving " +
				"strategies, and help you set budget goals. What would you like to explore?",
			Suggestions: []string{"Analyze my spending", "Give saving tips", "Set budget goals"},
		}
	default:
		return Reply{
			Response: fmt.Sprintf(
				"I understand you're asking about %q. I can help with spending analysis, "+
					"category budgets, and saving opportunities. Which would you like?", message),
			Suggestions: []string{"Analyze my spending", "Give saving tips", "Set budget goals"},
		}
	}
}
