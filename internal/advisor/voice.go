package advisor

import (
	"regexp"
	"strings"

	"spendtrack/internal/core"
)

var amountPattern = regexp.MustCompile(`\$?(\d+(?:\.\d{1,2})?)`)

// categoryKeywords maps trigger words in a transcript to an expense
// category. First match wins; anything unmatched falls back to Others.
var categoryKeywords = []struct {
	category core.Category
	keywords []string
}{
	{core.CategoryFood, []string{"food", "restaurant", "lunch", "dinner", "coffee", "grocer"}},
	{core.CategoryTransportation, []string{"gas", "uber", "taxi", "bus", "train", "parking"}},
	{core.CategoryEntertainment, []string{"movie", "game", "entertainment", "concert"}},
	{core.CategoryHealthcare, []string{"medicine", "doctor", "hospital", "pharmacy"}},
	{core.CategoryShopping, []string{"shopping", "clothes", "store", "mall"}},
	{core.CategoryBills, []string{"bill", "electricity", "water", "internet", "rent"}},
	{core.CategoryEducation, []string{"course", "book", "tuition", "class"}},
	{core.CategoryTravel, []string{"flight", "hotel", "trip", "vacation"}},
}

// ParsedExpense is the draft extracted from a voice transcript. It is not
// persisted; the client reviews it before submitting a real expense.
type ParsedExpense struct {
	Title      string        `json:"title"`
	Amount     core.Money    `json:"amount"`
	Category   core.Category `json:"category"`
	Transcript string        `json:"transcript"`
}

// ParseTranscript extracts an amount and a category from a spoken expense
// description. The amount is the first number in the text; the category
// comes from keyword matching.
func ParseTranscript(text string) ParsedExpense {
	lower := strings.ToLower(text)

	parsed := ParsedExpense{
		Category:   core.CategoryOthers,
		Transcript: strings.TrimSpace(text),
	}

	if m := amountPattern.FindStringSubmatch(text); m != nil {
		if cents, err := core.ParseDecimalToCents(m[1]); err == nil {
			parsed.Amount = core.Money{Cents: cents}
		}
	}

	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				parsed.Category = entry.category
				parsed.Title = string(entry.category) + " expense"
				return parsed
			}
		}
	}

	parsed.Title = string(core.CategoryOthers) + " expense"
	return parsed
}
