// Package model defines the domain entities of the nutrition planner.
package model

// FoodCategory groups foods for display and filtering.
type FoodCategory string

const (
	CategoryGrains     FoodCategory = "grains"
	CategoryPulses     FoodCategory = "pulses"
	CategoryVegetables FoodCategory = "vegetables"
	CategoryDairy      FoodCategory = "dairy"
	CategoryProtein    FoodCategory = "protein"
	CategoryOils       FoodCategory = "oils"
	CategoryFruits     FoodCategory = "fruits"
	CategorySpices     FoodCategory = "spices"
	CategorySweeteners FoodCategory = "sweeteners"
)

// Nutrients holds the six tracked nutrient quantities.
// Food entries express them per 100g (or 100ml) of the food.
//
// @Description Nutrient quantities
type Nutrients struct {
	Calories float64 `json:"calories" bson:"calories" example:"130"`
	Protein  float64 `json:"protein" bson:"protein" example:"2.7"`
	Iron     float64 `json:"iron" bson:"iron" example:"0.8"`
	Calcium  float64 `json:"calcium" bson:"calcium" example:"28"`
	VitaminA float64 `json:"vitamin_a" bson:"vitamin_a" example:"0"`
	VitaminC float64 `json:"vitamin_c" bson:"vitamin_c" example:"0"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories + o.Calories,
		Protein:  n.Protein + o.Protein,
		Iron:     n.Iron + o.Iron,
		Calcium:  n.Calcium + o.Calcium,
		VitaminA: n.VitaminA + o.VitaminA,
		VitaminC: n.VitaminC + o.VitaminC,
	}
}

// Scale multiplies every nutrient by f.
func (n Nutrients) Scale(f float64) Nutrients {
	return Nutrients{
		Calories: n.Calories * f,
		Protein:  n.Protein * f,
		Iron:     n.Iron * f,
		Calcium:  n.Calcium * f,
		VitaminA: n.VitaminA * f,
		VitaminC: n.VitaminC * f,
	}
}

// FoodItem is an entry of the food reference table.
//
// @Description Food with its reference cost and nutrients per 100 units
type FoodItem struct {
	ID          string       `json:"id" example:"rice"`
	Name        string       `json:"name" example:"Rice"`
	CostPer100g float64      `json:"cost_per_100g" example:"4"`
	Nutrients   Nutrients    `json:"nutrients"`
	Category    FoodCategory `json:"category" example:"grains"`
	Unit        string       `json:"unit" example:"kg"`
}

// FoodScore ranks a food by nutrition delivered per unit of cost.
//
// @Description Nutrition efficiency of a food at the effective price
type FoodScore struct {
	FoodID         string  `json:"food_id" example:"spinach"`
	Name           string  `json:"name" example:"Spinach"`
	Cost           float64 `json:"cost" example:"6"`
	NutritionScore float64 `json:"nutrition_score" example:"1374.4"`
	Efficiency     float64 `json:"efficiency" example:"229.07"`
}
