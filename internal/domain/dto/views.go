package dto

import (
	"time"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

// FoodView is a catalogue food at its effective price.
//
// @Description Food with the price used for planning
type FoodView struct {
	model.FoodItem
	// EffectiveCost is the cost per 100 units after price overrides.
	EffectiveCost float64 `json:"effective_cost" example:"4"`
} // @name FoodView

// SuggestionsResponse wraps a list of suggestions.
//
// @Description Ordered suggestions
type SuggestionsResponse struct {
	Suggestions []model.BudgetSuggestion `json:"suggestions"`
	Count       int                      `json:"count" example:"4"`
} // @name SuggestionsResponse

// NewSuggestionsResponse never returns a nil list.
func NewSuggestionsResponse(s []model.BudgetSuggestion) SuggestionsResponse {
	if s == nil {
		s = []model.BudgetSuggestion{}
	}
	return SuggestionsResponse{Suggestions: s, Count: len(s)}
}

// AccountView is an account as listed to admins.
//
// @Description Account with roles and status
type AccountView struct {
	UserResponse
	Active    bool      `json:"active" example:"true"`
	CreatedAt time.Time `json:"created_at"`
} // @name AccountView

// NewAccountViews converts users, skipping nil entries.
func NewAccountViews(users ...*model.User) []AccountView {
	views := make([]AccountView, 0, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		views = append(views, AccountView{UserResponse: NewUserResponse(u), Active: u.Active, CreatedAt: u.CreatedAt})
	}
	return views
}
