package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/metrics"
)

// DefaultCurrency labels amounts when a plan carries no currency.
const DefaultCurrency = "₹"

// minFoodVariety is the distinct-food count below which a plan is flagged as monotonous.
const minFoodVariety = 12

var proteinSources = []string{"Toor Dal", "Moong Dal", "Chana Dal", "Eggs", "Milk", "Chicken"}

// SuggestionOption configures a SuggestionEngine.
type SuggestionOption func(*SuggestionEngine)

// SuggestionEngine produces rule-based advice for meal plans. Only seasonal
// suggestions depend on the clock.
type SuggestionEngine struct {
	now func() time.Time
}

// NewSuggestionEngine creates a SuggestionEngine using the wall clock.
func NewSuggestionEngine(opts ...SuggestionOption) *SuggestionEngine {
	e := &SuggestionEngine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithClock overrides the time source used for seasonal suggestions.
func WithClock(now func() time.Time) SuggestionOption {
	return func(e *SuggestionEngine) {
		if now != nil {
			e.now = now
		}
	}
}

// BudgetSuggestions evaluates the suggestion catalogue against a plan's
// budget use and coverage. The result is ordered high priority first;
// suggestions of equal priority keep catalogue order.
func (e *SuggestionEngine) BudgetSuggestions(
	members []model.FamilyMember,
	weeklyBudget, budgetUsed float64,
	coverage model.NutritionCoverage,
	prices map[string]float64,
) []model.BudgetSuggestion {
	utilization := model.BudgetUtilization(budgetUsed, weeklyBudget)
	avgCoverage := coverage.Average()
	out := make([]model.BudgetSuggestion, 0, 10)

	if utilization > 0.9 {
		out = append(out,
			model.BudgetSuggestion{
				Category:    model.SuggestionBudget,
				Priority:    model.PriorityHigh,
				Title:       "Budget Exceeded - Smart Substitutions",
				Description: "Replace expensive items with nutritionally equivalent alternatives",
				Action:      "Switch from chicken to eggs for protein (60% cost reduction)",
				Savings:     model.Savings(budgetUsed * 0.15),
			},
			model.BudgetSuggestion{
				Category:    model.SuggestionOptimization,
				Priority:    model.PriorityHigh,
				Title:       "Bulk Buying Opportunity",
				Description: "Buy rice and dal in 5kg quantities to reduce per-unit cost by 20%",
				Action:      "Purchase staples in bulk from wholesale markets",
				Savings:     model.Savings(budgetUsed * 0.12),
			},
		)
	}

	if coverage.Protein < 70 {
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityHigh,
			Title:       "Protein Deficiency Alert",
			Description: "Current protein intake is below recommended levels",
			Action:      "Add 2 eggs daily or increase dal portions by 25%",
			Savings:     model.Savings(-20),
		})
	}
	if coverage.Iron < 60 {
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityHigh,
			Title:       "Iron Boost Needed",
			Description: "Include iron-rich foods with vitamin C for better absorption",
			Action:      "Add spinach + tomato combination, or jaggery with meals",
			Savings:     model.Savings(0),
		})
	}
	if coverage.Calcium < 65 {
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityMedium,
			Title:       "Calcium Enhancement",
			Description: "Strengthen bone health with affordable calcium sources",
			Action:      "Increase milk intake or add sesame seeds to meals",
			Savings:     model.Savings(-15),
		})
	}

	out = append(out, SeasonalSuggestions(e.now().Month())...)

	if model.CountOf(members, model.MemberChild) > 0 {
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityMedium,
			Title:       "Growing Children Nutrition",
			Description: "Children need extra calcium and protein for healthy growth",
			Action:      "Ensure 2 glasses of milk daily and include eggs 4 times per week",
			Savings:     model.Savings(-25),
		})
	}
	if model.CountOf(members, model.MemberElderly) > 0 {
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityMedium,
			Title:       "Senior Nutrition Care",
			Description: "Elderly members need easily digestible, nutrient-dense foods",
			Action:      "Include soft dal preparations and calcium-rich foods",
			Savings:     model.Savings(0),
		})
	}

	if utilization < 0.7 && avgCoverage < 80 {
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionOptimization,
			Priority:    model.PriorityMedium,
			Title:       "Underutilized Budget Opportunity",
			Description: "You have room to improve nutrition within your budget",
			Action:      "Add fruits, nuts, or increase vegetable variety",
			Savings:     model.Savings(-(weeklyBudget - budgetUsed) * 0.5),
		})
	}

	out = append(out,
		model.BudgetSuggestion{
			Category:    model.SuggestionOptimization,
			Priority:    model.PriorityLow,
			Title:       "Market Timing Strategy",
			Description: "Shop in the evening for better vegetable prices",
			Action:      "Visit local markets after 6 PM for 15-20% discounts",
			Savings:     model.Savings(budgetUsed * 0.08),
		},
		model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityLow,
			Title:       "Complete Protein Combination",
			Description: "Rice + Dal provides all essential amino acids",
			Action:      "Maintain 3:1 rice to dal ratio for optimal protein quality",
			Savings:     model.Savings(0),
		},
	)

	SortByPriority(out)
	record("budget", out)
	return out
}

// SeasonalSuggestions returns the advice for the season containing month.
// Winter is November to February, summer March to June, monsoon July to October.
func SeasonalSuggestions(month time.Month) []model.BudgetSuggestion {
	switch {
	case month >= time.November || month <= time.February:
		return []model.BudgetSuggestion{{
			Category:    model.SuggestionSeasonal,
			Priority:    model.PriorityMedium,
			Title:       "Winter Vegetable Advantage",
			Description: "Carrots, spinach, and cauliflower are at peak season",
			Action:      "Stock up on winter vegetables - they're 40% cheaper now",
			Savings:     model.Savings(30),
		}}
	case month <= time.June:
		return []model.BudgetSuggestion{{
			Category:    model.SuggestionSeasonal,
			Priority:    model.PriorityMedium,
			Title:       "Summer Hydration Focus",
			Description: "Include water-rich foods and cooling ingredients",
			Action:      "Add cucumber, watermelon, and increase fluid intake",
			Savings:     model.Savings(0),
		}}
	default:
		return []model.BudgetSuggestion{{
			Category:    model.SuggestionSeasonal,
			Priority:    model.PriorityMedium,
			Title:       "Monsoon Immunity Boost",
			Description: "Focus on immunity-building foods during rainy season",
			Action:      "Include turmeric, ginger, and vitamin C rich foods",
			Savings:     model.Savings(-10),
		}}
	}
}

// MealPlanSuggestions checks a plan's food variety and daily protein sources.
func (e *SuggestionEngine) MealPlanSuggestions(plan model.PlanResult) []model.BudgetSuggestion {
	var out []model.BudgetSuggestion

	distinct := make(map[string]struct{})
	for _, day := range plan.MealPlans {
		for _, f := range day.Foods() {
			distinct[f] = struct{}{}
		}
	}
	if len(distinct) < minFoodVariety {
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityMedium,
			Title:       "Increase Food Variety",
			Description: "More variety ensures better micronutrient coverage",
			Action:      "Add 2-3 different vegetables or grains to your weekly plan",
			Savings:     model.Savings(-20),
		})
	}

	for _, day := range plan.MealPlans {
		if !hasProteinSource(day.Foods()) {
			out = append(out, model.BudgetSuggestion{
				Category:    model.SuggestionNutrition,
				Priority:    model.PriorityHigh,
				Title:       "Protein Distribution Issue",
				Description: "Some meals lack adequate protein sources",
				Action:      "Ensure each meal has at least one protein source",
				Savings:     model.Savings(0),
			})
			break
		}
	}

	record("meal_plan", out)
	return out
}

func hasProteinSource(foods []string) bool {
	for _, f := range foods {
		for _, p := range proteinSources {
			if strings.Contains(f, p) {
				return true
			}
		}
	}
	return false
}

// PersonalizedTips compares the current plan with previously saved ones.
// An empty history yields no tips.
func (e *SuggestionEngine) PersonalizedTips(history []model.PlanResult, current model.PlanResult) []model.BudgetSuggestion {
	var out []model.BudgetSuggestion
	if len(history) == 0 {
		return out
	}

	var spent, nutrition float64
	for _, p := range history {
		spent += p.TotalBudgetUsed
		nutrition += p.NutritionCoverage.Average()
	}
	avgSpent := spent / float64(len(history))
	avgNutrition := nutrition / float64(len(history))

	if current.TotalBudgetUsed > avgSpent*1.2 {
		currency := current.Currency
		if currency == "" {
			currency = DefaultCurrency
		}
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionBudget,
			Priority:    model.PriorityHigh,
			Title:       "Budget Spike Detected",
			Description: fmt.Sprintf("This plan costs 20%% more than your usual %s%.0f", currency, avgSpent),
			Action:      "Review expensive items and consider alternatives",
			Savings:     model.Savings(current.TotalBudgetUsed - avgSpent),
		})
	}

	currentNutrition := current.NutritionCoverage.Average()
	if currentNutrition > avgNutrition*1.1 {
		description := "Great job! This plan is more nutritious than your usual plans"
		if avgNutrition > 0 {
			description = fmt.Sprintf("Great job! This plan is %.0f%% more nutritious",
				(currentNutrition-avgNutrition)/avgNutrition*100)
		}
		out = append(out, model.BudgetSuggestion{
			Category:    model.SuggestionNutrition,
			Priority:    model.PriorityLow,
			Title:       "Nutrition Improvement!",
			Description: description,
			Action:      "Keep up the excellent nutrition choices",
			Savings:     model.Savings(0),
		})
	}

	record("personalized", out)
	return out
}

// SortByPriority orders suggestions high priority first, keeping the
// relative order of equal priorities.
func SortByPriority(s []model.BudgetSuggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Priority.Weight() > s[j].Priority.Weight()
	})
}

func record(source string, s []model.BudgetSuggestion) {
	for _, item := range s {
		metrics.RecordSuggestion(source, string(item.Category), string(item.Priority))
	}
}
