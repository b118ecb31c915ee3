package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

func TestFoods_Invariants(t *testing.T) {
	items := Foods()
	require.Len(t, items, 21)

	seen := make(map[string]bool)
	for _, f := range items {
		assert.False(t, seen[f.ID], "duplicate id %s", f.ID)
		seen[f.ID] = true

		assert.GreaterOrEqual(t, f.CostPer100g, 0.0, f.ID)
		assert.GreaterOrEqual(t, f.Nutrients.Calories, 0.0, f.ID)
		assert.GreaterOrEqual(t, f.Nutrients.Protein, 0.0, f.ID)
		assert.GreaterOrEqual(t, f.Nutrients.Iron, 0.0, f.ID)
		assert.GreaterOrEqual(t, f.Nutrients.Calcium, 0.0, f.ID)
		assert.GreaterOrEqual(t, f.Nutrients.VitaminA, 0.0, f.ID)
		assert.GreaterOrEqual(t, f.Nutrients.VitaminC, 0.0, f.ID)
		assert.NotEmpty(t, f.Name)
		assert.NotEmpty(t, f.Unit)
	}
}

func TestFoods_ReturnsCopy(t *testing.T) {
	items := Foods()
	items[0].CostPer100g = 999

	rice, ok := FoodByID("rice")
	require.True(t, ok)
	assert.Equal(t, 4.0, rice.CostPer100g)
}

func TestFoodByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		found    bool
		expected string
	}{
		{name: "grain", id: "wheat", found: true, expected: "Wheat Flour"},
		{name: "pulse", id: "toor_dal", found: true, expected: "Toor Dal"},
		{name: "unknown", id: "quinoa", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := FoodByID(tt.id)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, f.Name)
			assert.Equal(t, tt.found, Known(tt.id))
		})
	}
}

func TestDefaultFoodPrices(t *testing.T) {
	prices := DefaultFoodPrices()

	assert.Len(t, prices, 21)
	assert.Equal(t, 4.0, prices["rice"])
	assert.Equal(t, 50.0, prices["ghee"])
	assert.Equal(t, 25.0, prices["turmeric"])
}

func TestDailyRequirement(t *testing.T) {
	adult, ok := DailyRequirement(model.MemberAdult)
	require.True(t, ok)
	assert.Equal(t, model.Nutrients{Calories: 2000, Protein: 50, Iron: 18, Calcium: 1000, VitaminA: 900, VitaminC: 90}, adult)

	elderly, ok := DailyRequirement(model.MemberElderly)
	require.True(t, ok)
	assert.Equal(t, 1200.0, elderly.Calcium)

	_, ok = DailyRequirement(model.MemberType("teen"))
	assert.False(t, ok)
}

func TestMealTemplates(t *testing.T) {
	templates := MealTemplates()
	require.Len(t, templates, 3)

	for i, tpl := range templates {
		for _, id := range tpl.Slots() {
			assert.True(t, Known(id), "template %d names unknown food %s", i, id)
		}
	}
	assert.Equal(t, []string{"rice", "milk", "jaggery"}, templates[0].Breakfast)
	assert.Equal(t, []string{"rice", "eggs", "salt"}, templates[2].Breakfast)
}

func TestBaseQuantity(t *testing.T) {
	q, ok := BaseQuantity("milk")
	assert.True(t, ok)
	assert.Equal(t, 250.0, q)

	_, ok = BaseQuantity("ghee")
	assert.False(t, ok)
	_, ok = BaseQuantity("apple")
	assert.False(t, ok)
}
