package service

import (
	"testing"
	"time"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(month time.Month) func() time.Time {
	return func() time.Time { return time.Date(2025, month, 15, 12, 0, 0, 0, time.UTC) }
}

func titles(s []model.BudgetSuggestion) []string {
	out := make([]string, len(s))
	for i, item := range s {
		out[i] = item.Title
	}
	return out
}

func assertPriorityOrder(t *testing.T, s []model.BudgetSuggestion) {
	t.Helper()
	for i := 1; i < len(s); i++ {
		assert.GreaterOrEqual(t, s[i-1].Priority.Weight(), s[i].Priority.Weight(), "position %d", i)
	}
}

func TestBudgetSuggestions_HighUtilizationWithDeficiencies(t *testing.T) {
	engine := NewSuggestionEngine(WithClock(fixedClock(time.April)))
	coverage := model.NutritionCoverage{Calories: 80, Protein: 60, Iron: 50, Calcium: 80, VitaminA: 80, VitaminC: 80}

	got := engine.BudgetSuggestions(
		[]model.FamilyMember{{Type: model.MemberAdult, Count: 2}},
		100, 95, coverage, nil,
	)

	assert.Equal(t, []string{
		"Budget Exceeded - Smart Substitutions",
		"Bulk Buying Opportunity",
		"Protein Deficiency Alert",
		"Iron Boost Needed",
		"Summer Hydration Focus",
		"Market Timing Strategy",
		"Complete Protein Combination",
	}, titles(got))
	assertPriorityOrder(t, got)

	require.NotNil(t, got[0].Savings)
	assert.InDelta(t, 95*0.15, *got[0].Savings, 1e-9)
	assert.InDelta(t, 95*0.12, *got[1].Savings, 1e-9)
	assert.InDelta(t, -20, *got[2].Savings, 1e-9)
	assert.Equal(t, model.SuggestionOptimization, got[1].Category)
	assert.InDelta(t, 95*0.08, *got[5].Savings, 1e-9)
}

func TestBudgetSuggestions_StableOrderingOfMediumPriority(t *testing.T) {
	engine := NewSuggestionEngine(WithClock(fixedClock(time.December)))
	coverage := model.NutritionCoverage{Calories: 50, Protein: 90, Iron: 90, Calcium: 40, VitaminA: 50, VitaminC: 50}

	got := engine.BudgetSuggestions(
		[]model.FamilyMember{
			{Type: model.MemberAdult, Count: 2},
			{Type: model.MemberChild, Count: 1},
			{Type: model.MemberElderly, Count: 1},
		},
		500, 200, coverage, nil,
	)

	assert.Equal(t, []string{
		"Calcium Enhancement",
		"Winter Vegetable Advantage",
		"Growing Children Nutrition",
		"Senior Nutrition Care",
		"Underutilized Budget Opportunity",
		"Market Timing Strategy",
		"Complete Protein Combination",
	}, titles(got))
	assertPriorityOrder(t, got)

	underused := got[4]
	require.NotNil(t, underused.Savings)
	assert.InDelta(t, -(500-200)*0.5, *underused.Savings, 1e-9)
}

func TestBudgetSuggestions_MemberCountUsesFirstEntry(t *testing.T) {
	engine := NewSuggestionEngine(WithClock(fixedClock(time.August)))
	full := model.NutritionCoverage{Calories: 100, Protein: 100, Iron: 100, Calcium: 100, VitaminA: 100, VitaminC: 100}

	got := engine.BudgetSuggestions(
		[]model.FamilyMember{{Type: model.MemberChild, Count: 0}, {Type: model.MemberChild, Count: 2}},
		100, 80, full, nil,
	)

	assert.Equal(t, []string{"Monsoon Immunity Boost", "Market Timing Strategy", "Complete Protein Combination"}, titles(got))
}

func TestBudgetSuggestions_ZeroBudget(t *testing.T) {
	engine := NewSuggestionEngine(WithClock(fixedClock(time.March)))
	full := model.NutritionCoverage{Calories: 100, Protein: 100, Iron: 100, Calcium: 100, VitaminA: 100, VitaminC: 100}

	spent := engine.BudgetSuggestions(nil, 0, 50, full, nil)
	assert.Equal(t, "Budget Exceeded - Smart Substitutions", spent[0].Title)

	idle := engine.BudgetSuggestions(nil, 0, 0, model.NutritionCoverage{}, nil)
	assert.Contains(t, titles(idle), "Underutilized Budget Opportunity")
	assert.NotContains(t, titles(idle), "Budget Exceeded - Smart Substitutions")
}

func TestSeasonalSuggestions(t *testing.T) {
	tests := []struct {
		month time.Month
		title string
	}{
		{time.January, "Winter Vegetable Advantage"},
		{time.February, "Winter Vegetable Advantage"},
		{time.March, "Summer Hydration Focus"},
		{time.June, "Summer Hydration Focus"},
		{time.July, "Monsoon Immunity Boost"},
		{time.October, "Monsoon Immunity Boost"},
		{time.November, "Winter Vegetable Advantage"},
		{time.December, "Winter Vegetable Advantage"},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			got := SeasonalSuggestions(tt.month)
			require.Len(t, got, 1)
			assert.Equal(t, tt.title, got[0].Title)
			assert.Equal(t, model.SuggestionSeasonal, got[0].Category)
			assert.Equal(t, model.PriorityMedium, got[0].Priority)
		})
	}
}

func TestMealPlanSuggestions(t *testing.T) {
	engine := NewSuggestionEngine()

	t.Run("optimizer plan passes both checks", func(t *testing.T) {
		plan := NewOptimizer().Optimize(model.PlanInput{FamilyMembers: familyOfThree(), WeeklyBudget: 500})
		assert.Empty(t, engine.MealPlanSuggestions(plan))
	})

	t.Run("low variety and missing protein", func(t *testing.T) {
		plan := model.PlanResult{MealPlans: []model.MealPlan{
			{Day: "Monday", Breakfast: []string{"Rice"}, Lunch: []string{"Toor Dal"}, Dinner: []string{"Rice"}},
			{Day: "Tuesday", Breakfast: []string{"Rice"}, Lunch: []string{"Potato"}, Dinner: []string{"Onion"}},
		}}

		got := engine.MealPlanSuggestions(plan)
		assert.Equal(t, []string{"Increase Food Variety", "Protein Distribution Issue"}, titles(got))
		assert.Equal(t, model.PriorityHigh, got[1].Priority)
	})

	t.Run("protein matched by substring", func(t *testing.T) {
		plan := model.PlanResult{MealPlans: []model.MealPlan{
			{Day: "Monday", Breakfast: []string{"Boiled Eggs"}},
		}}
		assert.Equal(t, []string{"Increase Food Variety"}, titles(engine.MealPlanSuggestions(plan)))
	})
}

func TestPersonalizedTips(t *testing.T) {
	engine := NewSuggestionEngine()
	cov := func(v float64) model.NutritionCoverage {
		return model.NutritionCoverage{Calories: v, Protein: v, Iron: v, Calcium: v, VitaminA: v, VitaminC: v}
	}

	t.Run("empty history", func(t *testing.T) {
		assert.Empty(t, engine.PersonalizedTips(nil, model.PlanResult{TotalBudgetUsed: 1000}))
	})

	t.Run("spike and improvement", func(t *testing.T) {
		history := []model.PlanResult{
			{TotalBudgetUsed: 100, NutritionCoverage: cov(50)},
			{TotalBudgetUsed: 200, NutritionCoverage: cov(50)},
		}
		got := engine.PersonalizedTips(history, model.PlanResult{TotalBudgetUsed: 200, NutritionCoverage: cov(60)})

		require.Len(t, got, 2)
		assert.Equal(t, "Budget Spike Detected", got[0].Title)
		assert.Equal(t, "This plan costs 20% more than your usual ₹150", got[0].Description)
		assert.InDelta(t, 50, *got[0].Savings, 1e-9)
		assert.Equal(t, "Nutrition Improvement!", got[1].Title)
		assert.Equal(t, "Great job! This plan is 20% more nutritious", got[1].Description)
	})

	t.Run("currency label", func(t *testing.T) {
		history := []model.PlanResult{{TotalBudgetUsed: 100}}
		got := engine.PersonalizedTips(history, model.PlanResult{TotalBudgetUsed: 130, Currency: "$"})
		require.Len(t, got, 1)
		assert.Equal(t, "This plan costs 20% more than your usual $100", got[0].Description)
	})

	t.Run("zero historical coverage", func(t *testing.T) {
		history := []model.PlanResult{{TotalBudgetUsed: 100}}
		got := engine.PersonalizedTips(history, model.PlanResult{TotalBudgetUsed: 100, NutritionCoverage: cov(40)})
		require.Len(t, got, 1)
		assert.Equal(t, "Great job! This plan is more nutritious than your usual plans", got[0].Description)
	})

	t.Run("steady plan", func(t *testing.T) {
		history := []model.PlanResult{{TotalBudgetUsed: 100, NutritionCoverage: cov(70)}}
		assert.Empty(t, engine.PersonalizedTips(history, model.PlanResult{TotalBudgetUsed: 110, NutritionCoverage: cov(75)}))
	})
}

func TestSortByPriority_IsStable(t *testing.T) {
	s := []model.BudgetSuggestion{
		{Title: "a", Priority: model.PriorityLow},
		{Title: "b", Priority: model.PriorityMedium},
		{Title: "c", Priority: model.PriorityLow},
		{Title: "d", Priority: model.PriorityHigh},
		{Title: "e", Priority: model.PriorityMedium},
	}
	SortByPriority(s)
	assert.Equal(t, []string{"d", "b", "e", "a", "c"}, titles(s))
}
