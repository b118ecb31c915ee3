// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/guttosm/nutriplan-service/internal/domain/catalog"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

// Request limits.
const (
	MaxMemberCount    = 50
	MaxCurrencyLength = 8
	MaxPlanNameLength = 100
	MaxHistoryPlans   = 52
)

// MsgUnknownFood is the validation message for a food id missing from the catalogue.
const MsgUnknownFood = "unknown food id"

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrInvalidBudget is returned when weekly_budget is NaN or infinite.
	ErrInvalidBudget = &ValidationError{
		Field:   "weekly_budget",
		Message: "must be a finite number",
	}
	// ErrPlanNameRequired is returned when plan_name is blank.
	ErrPlanNameRequired = &ValidationError{
		Field:   "plan_name",
		Message: "is required",
	}
)

// OptimizeRequest represents the JSON request body for the optimize endpoint.
//
// FoodPrices is optional. Missing ids keep the user's price book or the
// reference cost.
//
// @Description Request to build a weekly meal plan
type OptimizeRequest struct {
	// FamilyMembers lists at most one entry per member type.
	FamilyMembers []model.FamilyMember `json:"family_members"`
	// WeeklyBudget may be zero or negative; utilization is reported accordingly.
	WeeklyBudget float64 `json:"weekly_budget" example:"500"`
	// FoodPrices overrides the cost per 100 units by food id.
	FoodPrices map[string]float64 `json:"food_prices,omitempty"`
	// Currency is a display label.
	Currency string `json:"currency,omitempty" example:"₹"`
} // @name OptimizeRequest

// Validate performs custom validation on the request.
func (r *OptimizeRequest) Validate() error {
	if err := validateMembers(r.FamilyMembers); err != nil {
		return err
	}
	if !finite(r.WeeklyBudget) {
		return ErrInvalidBudget
	}
	if err := ValidatePrices("food_prices", r.FoodPrices); err != nil {
		return err
	}
	return validateCurrency(r.Currency)
}

// ToInput converts the request into optimizer input over the given prices.
func (r *OptimizeRequest) ToInput(prices map[string]float64, defaultCurrency string) model.PlanInput {
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return model.PlanInput{
		FamilyMembers: r.FamilyMembers,
		WeeklyBudget:  r.WeeklyBudget,
		FoodPrices:    prices,
		Currency:      currency,
	}
}

// BudgetSuggestionsRequest is the body of the budget suggestions endpoint.
//
// @Description Inputs of the budget suggestion rules
type BudgetSuggestionsRequest struct {
	FamilyMembers     []model.FamilyMember    `json:"family_members"`
	WeeklyBudget      float64                 `json:"weekly_budget" example:"500"`
	BudgetUsed        float64                 `json:"budget_used" example:"475"`
	NutritionCoverage model.NutritionCoverage `json:"nutrition_coverage"`
	FoodPrices        map[string]float64      `json:"food_prices,omitempty"`
} // @name BudgetSuggestionsRequest

// Validate performs custom validation on the request.
func (r *BudgetSuggestionsRequest) Validate() error {
	if err := validateMembers(r.FamilyMembers); err != nil {
		return err
	}
	if !finite(r.WeeklyBudget) {
		return ErrInvalidBudget
	}
	if !finite(r.BudgetUsed) || r.BudgetUsed < 0 {
		return &ValidationError{Field: "budget_used", Message: "must be a finite number >= 0"}
	}
	c := r.NutritionCoverage
	for _, v := range []float64{c.Calories, c.Protein, c.Iron, c.Calcium, c.VitaminA, c.VitaminC} {
		if !finite(v) || v < 0 {
			return &ValidationError{Field: "nutrition_coverage", Message: "percentages must be finite and >= 0"}
		}
	}
	return ValidatePrices("food_prices", r.FoodPrices)
}

// MealPlanSuggestionsRequest is the body of the meal-plan suggestions endpoint.
//
// @Description Plan to inspect for variety and protein distribution
type MealPlanSuggestionsRequest struct {
	Plan model.PlanResult `json:"plan"`
} // @name MealPlanSuggestionsRequest

// Validate performs custom validation on the request.
func (r *MealPlanSuggestionsRequest) Validate() error {
	if len(r.Plan.MealPlans) == 0 {
		return &ValidationError{Field: "plan.meal_plans", Message: "at least one day is required"}
	}
	return nil
}

// PersonalizedTipsRequest is the body of the personalized tips endpoint.
// When History is empty and the caller is authenticated, saved plans are used.
//
// @Description Current plan compared against earlier plans
type PersonalizedTipsRequest struct {
	History []model.PlanResult `json:"history,omitempty"`
	Current model.PlanResult   `json:"current"`
} // @name PersonalizedTipsRequest

// Validate performs custom validation on the request.
func (r *PersonalizedTipsRequest) Validate() error {
	if len(r.History) > MaxHistoryPlans {
		return &ValidationError{Field: "history", Message: fmt.Sprintf("at most %d plans", MaxHistoryPlans)}
	}
	return nil
}

// SavePlanRequest is the body used to save or update a plan.
//
// @Description Named plan to persist
type SavePlanRequest struct {
	PlanName string           `json:"plan_name" example:"October week 2"`
	Plan     model.PlanResult `json:"plan"`
} // @name SavePlanRequest

// Validate performs custom validation on the request.
func (r *SavePlanRequest) Validate() error {
	r.PlanName = strings.TrimSpace(r.PlanName)
	if r.PlanName == "" {
		return ErrPlanNameRequired
	}
	if utf8.RuneCountInString(r.PlanName) > MaxPlanNameLength {
		return &ValidationError{Field: "plan_name", Message: fmt.Sprintf("must be at most %d characters", MaxPlanNameLength)}
	}
	if len(r.Plan.MealPlans) == 0 {
		return &ValidationError{Field: "plan.meal_plans", Message: "at least one day is required"}
	}
	return nil
}

// PricesRequest is the body of the price book update endpoint.
//
// @Description Food price overrides merged over the active price book
type PricesRequest struct {
	Prices map[string]float64 `json:"prices" binding:"required"`
} // @name PricesRequest

// Validate performs custom validation on the request.
func (r *PricesRequest) Validate() error {
	if len(r.Prices) == 0 {
		return &ValidationError{Field: "prices", Message: "at least one price is required"}
	}
	return ValidatePrices("prices", r.Prices)
}

// ProfileRequest is the body of the profile update endpoint.
//
// @Description Planning defaults of the user
type ProfileRequest struct {
	FullName      string  `json:"full_name" example:"Asha Verma"`
	FamilySize    int     `json:"family_size" example:"4"`
	DefaultBudget float64 `json:"default_budget" example:"500"`
	Currency      string  `json:"currency" example:"₹"`
} // @name ProfileRequest

// Validate performs custom validation on the request.
func (r *ProfileRequest) Validate() error {
	if r.FamilySize < 0 || r.FamilySize > MaxMemberCount*3 {
		return &ValidationError{Field: "family_size", Message: "out of range"}
	}
	if !finite(r.DefaultBudget) || r.DefaultBudget < 0 {
		return &ValidationError{Field: "default_budget", Message: "must be a finite number >= 0"}
	}
	if utf8.RuneCountInString(r.FullName) > MaxPlanNameLength {
		return &ValidationError{Field: "full_name", Message: "too long"}
	}
	return validateCurrency(r.Currency)
}

// ToProfile converts the request into a model.Profile.
func (r *ProfileRequest) ToProfile() model.Profile {
	return model.Profile{
		FullName:      strings.TrimSpace(r.FullName),
		FamilySize:    r.FamilySize,
		DefaultBudget: r.DefaultBudget,
		Currency:      r.Currency,
	}
}

// UserUpdateRequest is the body of the admin user update endpoint. Omitted
// fields are left unchanged.
//
// @Description Roles and status change of an account
type UserUpdateRequest struct {
	Roles  *[]string `json:"roles,omitempty" example:"user,admin"`
	Active *bool     `json:"active,omitempty" example:"false"`
} // @name UserUpdateRequest

// Validate performs custom validation on the request.
func (r *UserUpdateRequest) Validate() error {
	if r.Roles == nil && r.Active == nil {
		return &ValidationError{Field: "roles", Message: "roles or active is required"}
	}
	if r.Roles != nil && len(*r.Roles) == 0 {
		return &ValidationError{Field: "roles", Message: "must not be empty"}
	}
	return nil
}

// ToUpdate converts the request into a model.UserUpdate.
func (r *UserUpdateRequest) ToUpdate() model.UserUpdate {
	update := model.UserUpdate{Active: r.Active}
	if r.Roles != nil {
		update.Roles = make([]string, 0, len(*r.Roles))
		for _, role := range *r.Roles {
			update.Roles = append(update.Roles, strings.ToLower(strings.TrimSpace(role)))
		}
	}
	return update
}

// ValidatePrices checks that every id is a catalogue food and every price is finite and >= 0.
func ValidatePrices(field string, prices map[string]float64) error {
	for id, p := range prices {
		if !catalog.Known(id) {
			return &ValidationError{Field: field + "." + id, Message: MsgUnknownFood}
		}
		if !finite(p) || p < 0 {
			return &ValidationError{Field: field + "." + id, Message: "must be a finite number >= 0"}
		}
	}
	return nil
}

func validateMembers(members []model.FamilyMember) error {
	seen := make(map[model.MemberType]bool, len(members))
	for i, m := range members {
		field := fmt.Sprintf("family_members[%d]", i)
		if !m.Type.Valid() {
			return &ValidationError{Field: field + ".type", Message: "must be one of adult, child, elderly"}
		}
		if m.Count < 0 || m.Count > MaxMemberCount {
			return &ValidationError{Field: field + ".count", Message: fmt.Sprintf("must be between 0 and %d", MaxMemberCount)}
		}
		if seen[m.Type] {
			return &ValidationError{Field: field + ".type", Message: "duplicate member type"}
		}
		seen[m.Type] = true
	}
	return nil
}

func validateCurrency(c string) error {
	if utf8.RuneCountInString(c) > MaxCurrencyLength {
		return &ValidationError{Field: "currency", Message: fmt.Sprintf("must be at most %d characters", MaxCurrencyLength)}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
