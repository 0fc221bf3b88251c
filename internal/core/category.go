package core

import "strings"

// Category is the closed set of expense categories. Keeping it a distinct
// type means an out-of-set value can only enter through ParseCategory, which
// rejects it at the boundary.
type Category string

const (
	CategoryFood           Category = "Food"
	CategoryTransportation Category = "Transportation"
	CategoryEntertainment  Category = "Entertainment"
	CategoryHealthcare     Category = "Healthcare"
	CategoryShopping       Category = "Shopping"
	CategoryBills          Category = "Bills"
	CategoryEducation      Category = "Education"
	CategoryTravel         Category = "Travel"
	CategoryOthers         Category = "Others"
)

// Categories returns all valid expense categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryShopping,
		CategoryBills,
		CategoryEducation,
		CategoryTravel,
		CategoryOthers,
	}
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	for _, valid := range Categories() {
		if c == valid {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// Valid reports whether the category belongs to the closed set.
func (c Category) Valid() bool {
	_, err := ParseCategory(string(c))
	return err == nil
}

// GoalCategory classifies savings goals.
type GoalCategory string

const (
	GoalSavings    GoalCategory = "savings"
	GoalDebt       GoalCategory = "debt"
	GoalInvestment GoalCategory = "investment"
	GoalEmergency  GoalCategory = "emergency"
)

// Priority ranks a goal's urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (g GoalCategory) Valid() bool {
	switch g {
	case GoalSavings, GoalDebt, GoalInvestment, GoalEmergency:
		return true
	}
	return false
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
