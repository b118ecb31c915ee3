// Package catalog holds the read-only reference data of the planner: the food
// table, daily nutrient requirements, meal templates and portion sizes.
package catalog

import (
	"slices"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

// Weekdays in plan order.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Costs and nutrients are per 100g (100ml for liquids).
var foods = []model.FoodItem{
	food("rice", "Rice", 4.0, model.CategoryGrains, "kg", 130, 2.7, 0.8, 28, 0, 0),
	food("wheat", "Wheat Flour", 3.5, model.CategoryGrains, "kg", 364, 12.6, 3.2, 41, 0, 0),
	food("millet", "Millet", 5.0, model.CategoryGrains, "kg", 378, 11.0, 3.0, 8, 0, 0),
	food("toor_dal", "Toor Dal", 9.0, model.CategoryPulses, "kg", 335, 22.3, 2.7, 73, 0, 0),
	food("moong_dal", "Moong Dal", 11.0, model.CategoryPulses, "kg", 347, 24.5, 3.9, 124, 0, 0),
	food("chana_dal", "Chana Dal", 8.5, model.CategoryPulses, "kg", 360, 20.1, 2.9, 56, 0, 0),
	food("potato", "Potato", 2.5, model.CategoryVegetables, "kg", 77, 2.0, 0.8, 12, 2, 19.7),
	food("onion", "Onion", 3.0, model.CategoryVegetables, "kg", 40, 1.1, 0.2, 23, 0, 7.4),
	food("tomato", "Tomato", 4.0, model.CategoryVegetables, "kg", 18, 0.9, 0.3, 10, 42, 13.7),
	food("spinach", "Spinach", 6.0, model.CategoryVegetables, "kg", 23, 2.9, 2.7, 99, 469, 28.1),
	food("carrot", "Carrot", 4.5, model.CategoryVegetables, "kg", 41, 0.9, 0.3, 33, 835, 5.9),
	food("milk", "Milk", 5.0, model.CategoryDairy, "liter", 60, 3.4, 0.0, 125, 46, 0),
	food("eggs", "Eggs", 6.0, model.CategoryProtein, "dozen", 155, 13.0, 1.8, 50, 140, 0),
	food("chicken", "Chicken", 15.0, model.CategoryProtein, "kg", 239, 27.3, 1.3, 15, 0, 0),
	food("mustard_oil", "Mustard Oil", 12.0, model.CategoryOils, "liter", 884, 0, 0, 0, 0, 0),
	food("ghee", "Ghee", 50.0, model.CategoryOils, "kg", 900, 0, 0, 0, 0, 0),
	food("banana", "Banana", 3.5, model.CategoryFruits, "dozen", 89, 1.1, 0.3, 5, 3, 8.7),
	food("apple", "Apple", 8.0, model.CategoryFruits, "kg", 52, 0.3, 0.1, 6, 3, 4.6),
	food("salt", "Salt", 2.0, model.CategorySpices, "kg", 0, 0, 0, 0, 0, 0),
	food("turmeric", "Turmeric", 25.0, model.CategorySpices, "kg", 354, 7.8, 41.4, 183, 0, 25.9),
	food("jaggery", "Jaggery", 4.5, model.CategorySweeteners, "kg", 383, 0.4, 11.0, 85, 0, 0),
}

func food(id, name string, cost float64, category model.FoodCategory, unit string, cal, protein, iron, calcium, vitA, vitC float64) model.FoodItem {
	return model.FoodItem{
		ID:          id,
		Name:        name,
		CostPer100g: cost,
		Category:    category,
		Unit:        unit,
		Nutrients: model.Nutrients{
			Calories: cal,
			Protein:  protein,
			Iron:     iron,
			Calcium:  calcium,
			VitaminA: vitA,
			VitaminC: vitC,
		},
	}
}

var foodIndex = func() map[string]int {
	idx := make(map[string]int, len(foods))
	for i, f := range foods {
		idx[f.ID] = i
	}
	return idx
}()

// Foods returns a copy of the reference table in catalogue order.
func Foods() []model.FoodItem {
	return slices.Clone(foods)
}

// FoodByID looks up a reference entry.
func FoodByID(id string) (model.FoodItem, bool) {
	i, ok := foodIndex[id]
	if !ok {
		return model.FoodItem{}, false
	}
	return foods[i], true
}

// Known reports whether id names a food of the table.
func Known(id string) bool {
	_, ok := foodIndex[id]
	return ok
}

// DefaultFoodPrices maps every food id to its reference cost.
func DefaultFoodPrices() map[string]float64 {
	prices := make(map[string]float64, len(foods))
	for _, f := range foods {
		prices[f.ID] = f.CostPer100g
	}
	return prices
}

var dailyRequirements = map[model.MemberType]model.Nutrients{
	model.MemberAdult:   {Calories: 2000, Protein: 50, Iron: 18, Calcium: 1000, VitaminA: 900, VitaminC: 90},
	model.MemberChild:   {Calories: 1500, Protein: 35, Iron: 10, Calcium: 800, VitaminA: 600, VitaminC: 45},
	model.MemberElderly: {Calories: 1800, Protein: 50, Iron: 8, Calcium: 1200, VitaminA: 900, VitaminC: 90},
}

// DailyRequirement returns the recommended daily intake for one member of type t.
func DailyRequirement(t model.MemberType) (model.Nutrients, bool) {
	req, ok := dailyRequirements[t]
	return req, ok
}

// MealTemplate names the food ids served at each meal of a day.
type MealTemplate struct {
	Breakfast []string
	Lunch     []string
	Dinner    []string
}

// Slots returns the food ids of every meal in order.
func (t MealTemplate) Slots() []string {
	ids := make([]string, 0, len(t.Breakfast)+len(t.Lunch)+len(t.Dinner))
	ids = append(ids, t.Breakfast...)
	ids = append(ids, t.Lunch...)
	return append(ids, t.Dinner...)
}

var mealTemplates = []MealTemplate{
	{
		Breakfast: []string{"rice", "milk", "jaggery"},
		Lunch:     []string{"rice", "toor_dal", "potato", "onion", "mustard_oil"},
		Dinner:    []string{"wheat", "moong_dal", "spinach", "tomato", "mustard_oil"},
	},
	{
		Breakfast: []string{"wheat", "milk", "banana"},
		Lunch:     []string{"rice", "chana_dal", "carrot", "onion", "mustard_oil"},
		Dinner:    []string{"millet", "toor_dal", "potato", "spinach", "mustard_oil"},
	},
	{
		Breakfast: []string{"rice", "eggs", "salt"},
		Lunch:     []string{"wheat", "moong_dal", "tomato", "onion", "mustard_oil"},
		Dinner:    []string{"rice", "toor_dal", "carrot", "potato", "mustard_oil"},
	},
}

// MealTemplates returns the daily templates, cycled across the week by day index.
func MealTemplates() []MealTemplate {
	return slices.Clone(mealTemplates)
}

// Grams (ml for liquids) per person per meal. Foods without an entry are
// never bought even when a template names them.
var baseQuantities = map[string]float64{
	"rice":        90,
	"wheat":       80,
	"millet":      85,
	"toor_dal":    35,
	"moong_dal":   35,
	"chana_dal":   35,
	"potato":      120,
	"onion":       40,
	"tomato":      60,
	"spinach":     60,
	"carrot":      50,
	"milk":        250,
	"eggs":        60,
	"chicken":     100,
	"mustard_oil": 15,
	"banana":      120,
	"salt":        3,
	"turmeric":    2,
	"jaggery":     20,
}

// BaseQuantity returns the per-person portion of a food.
func BaseQuantity(id string) (float64, bool) {
	q, ok := baseQuantities[id]
	return q, ok
}
