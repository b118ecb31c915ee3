package model

import (
	"maps"
	"math"
	"slices"
)

// PlanInput is what the optimizer needs to build a weekly plan.
type PlanInput struct {
	FamilyMembers []FamilyMember
	WeeklyBudget  float64
	// FoodPrices overrides the reference cost per food id.
	FoodPrices map[string]float64
	// Currency is a display label only.
	Currency string
}

// MealPlan lists the food names served on one day.
//
// @Description Meals of one day
type MealPlan struct {
	Day       string   `json:"day" bson:"day" example:"Monday"`
	Breakfast []string `json:"breakfast" bson:"breakfast"`
	Lunch     []string `json:"lunch" bson:"lunch"`
	Dinner    []string `json:"dinner" bson:"dinner"`
}

// Foods returns every food of the day in meal order.
func (m MealPlan) Foods() []string {
	foods := make([]string, 0, len(m.Breakfast)+len(m.Lunch)+len(m.Dinner))
	foods = append(foods, m.Breakfast...)
	foods = append(foods, m.Lunch...)
	return append(foods, m.Dinner...)
}

// ShoppingItem is a line of the weekly shopping list.
//
// @Description Shopping list line
type ShoppingItem struct {
	Food     string  `json:"food" bson:"food" example:"Rice"`
	Quantity float64 `json:"quantity" bson:"quantity" example:"2.84"`
	Unit     string  `json:"unit" bson:"unit" example:"kg"`
	Price    float64 `json:"price" bson:"price" example:"11.34"`
}

// NutritionCoverage is the percentage of each weekly requirement met, in [0, 100].
//
// @Description Nutrition coverage percentages
type NutritionCoverage struct {
	Calories float64 `json:"calories" bson:"calories" example:"84.2"`
	Protein  float64 `json:"protein" bson:"protein" example:"100"`
	Iron     float64 `json:"iron" bson:"iron" example:"61.5"`
	Calcium  float64 `json:"calcium" bson:"calcium" example:"45.1"`
	VitaminA float64 `json:"vitamin_a" bson:"vitamin_a" example:"72.3"`
	VitaminC float64 `json:"vitamin_c" bson:"vitamin_c" example:"58.9"`
}

// Average returns the mean of the six percentages.
func (c NutritionCoverage) Average() float64 {
	return (c.Calories + c.Protein + c.Iron + c.Calcium + c.VitaminA + c.VitaminC) / 6
}

// PlanResult is the optimizer output.
//
// @Description Weekly meal plan, shopping list, nutrition coverage and tips
type PlanResult struct {
	ShoppingList      []ShoppingItem     `json:"shopping_list" bson:"shopping_list"`
	MealPlans         []MealPlan         `json:"meal_plans" bson:"meal_plans"`
	NutritionCoverage NutritionCoverage  `json:"nutrition_coverage" bson:"nutrition_coverage"`
	TotalBudgetUsed   float64            `json:"total_budget_used" bson:"total_budget_used" example:"412.5"`
	BudgetTips        []string           `json:"budget_tips" bson:"budget_tips"`
	FamilySize        int                `json:"family_size" bson:"family_size" example:"3"`
	FamilyMembers     []FamilyMember     `json:"family_members,omitempty" bson:"family_members,omitempty"`
	WeeklyBudget      float64            `json:"weekly_budget,omitempty" bson:"weekly_budget,omitempty" example:"500"`
	FoodPrices        map[string]float64 `json:"food_prices,omitempty" bson:"food_prices,omitempty"`
	Currency          string             `json:"currency,omitempty" bson:"currency,omitempty" example:"₹"`
}

// Utilization returns TotalBudgetUsed relative to WeeklyBudget.
func (r PlanResult) Utilization() float64 {
	return BudgetUtilization(r.TotalBudgetUsed, r.WeeklyBudget)
}

// Clone returns a deep copy of r.
func (r PlanResult) Clone() PlanResult {
	out := r
	out.ShoppingList = slices.Clone(r.ShoppingList)
	out.BudgetTips = slices.Clone(r.BudgetTips)
	out.FamilyMembers = slices.Clone(r.FamilyMembers)
	out.FoodPrices = maps.Clone(r.FoodPrices)
	if r.MealPlans != nil {
		out.MealPlans = make([]MealPlan, len(r.MealPlans))
		for i, mp := range r.MealPlans {
			out.MealPlans[i] = MealPlan{
				Day:       mp.Day,
				Breakfast: slices.Clone(mp.Breakfast),
				Lunch:     slices.Clone(mp.Lunch),
				Dinner:    slices.Clone(mp.Dinner),
			}
		}
	}
	return out
}

// BudgetUtilization is used/budget. A non-positive budget yields 0 when nothing
// was spent and +Inf otherwise, so the result is never NaN.
func BudgetUtilization(used, budget float64) float64 {
	if budget > 0 {
		return used / budget
	}
	if used > 0 {
		return math.Inf(1)
	}
	return 0
}
