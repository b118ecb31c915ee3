package model

// SuggestionCategory classifies an advisory message.
type SuggestionCategory string

const (
	SuggestionBudget       SuggestionCategory = "budget"
	SuggestionNutrition    SuggestionCategory = "nutrition"
	SuggestionOptimization SuggestionCategory = "optimization"
	SuggestionSeasonal     SuggestionCategory = "seasonal"
)

// Priority orders suggestions for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight maps the priority to its sort weight (high=3, medium=2, low=1).
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// BudgetSuggestion is an advisory message derived from a plan.
// A positive Savings saves money, a negative one costs extra for a health benefit.
//
// @Description Budget or nutrition suggestion
type BudgetSuggestion struct {
	Category    SuggestionCategory `json:"type" example:"nutrition"`
	Priority    Priority           `json:"priority" example:"high"`
	Title       string             `json:"title" example:"Protein Deficiency Alert"`
	Description string             `json:"description" example:"Current protein intake is below recommended levels"`
	Action      string             `json:"action,omitempty" example:"Add 2 eggs daily or increase dal portions by 25%"`
	Savings     *float64           `json:"savings,omitempty" example:"-20"`
}

// Savings returns a pointer to v for BudgetSuggestion.Savings.
func Savings(v float64) *float64 {
	return &v
}
