package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// defaultHistoryDepth is the number of saved plans compared by personalized tips.
const defaultHistoryDepth = 8

// Handler provides HTTP handlers for the planning routes.
type Handler struct {
	optimizer       service.Optimizer
	suggestions     *service.SuggestionEngine
	priceBooks      service.PriceBookService
	savedPlans      service.SavedPlanService
	defaultCurrency string
	historyDepth    int
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithPriceBooks overlays the caller's price book on planning requests.
func WithPriceBooks(s service.PriceBookService) HandlerOption {
	return func(h *Handler) {
		h.priceBooks = s
	}
}

// WithSavedPlans lets personalized tips fall back to the caller's saved plans.
func WithSavedPlans(s service.SavedPlanService, depth int) HandlerOption {
	return func(h *Handler) {
		h.savedPlans = s
		if depth > 0 {
			h.historyDepth = depth
		}
	}
}

// WithDefaultCurrency sets the currency label used when a request has none.
func WithDefaultCurrency(currency string) HandlerOption {
	return func(h *Handler) {
		if currency != "" {
			h.defaultCurrency = currency
		}
	}
}

// NewHandler creates a new Handler instance.
func NewHandler(optimizer service.Optimizer, suggestions *service.SuggestionEngine, opts ...HandlerOption) *Handler {
	if suggestions == nil {
		suggestions = service.NewSuggestionEngine()
	}
	h := &Handler{
		optimizer:       optimizer,
		suggestions:     suggestions,
		defaultCurrency: service.DefaultCurrency,
		historyDepth:    defaultHistoryDepth,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// effectivePrices layers request overrides over the caller's price book.
func (h *Handler) effectivePrices(c *gin.Context, overrides map[string]float64) map[string]float64 {
	if h.priceBooks == nil {
		return overrides
	}
	return h.priceBooks.Effective(c.Request.Context(), middleware.GetSession(c), overrides)
}

// Foods handles GET /api/foods requests.
//
// @Summary      List foods
// @Description  Returns the food reference table with the price used for planning. Authenticated callers see their price book applied.
// @Tags         Foods
// @Produce      json
// @Param        Authorization header string false "Bearer token (optional)"
// @Success      200 {object} dto.SuccessResponse{data=[]dto.FoodView} "Foods"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid JWT token"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Router       /api/foods [get]
func (h *Handler) Foods(c *gin.Context) {
	prices := h.effectivePrices(c, nil)

	reference := service.EffectiveFoods(nil)
	effective := service.EffectiveFoods(prices)
	views := make([]dto.FoodView, len(reference))
	for i, food := range reference {
		views[i] = dto.FoodView{FoodItem: food, EffectiveCost: effective[i].CostPer100g}
	}

	NewResponseBuilder(c).SuccessOK(views)
}

// FoodRanking handles GET /api/foods/ranking requests.
//
// @Summary      Rank foods by efficiency
// @Description  Orders foods by nutrition score per unit cost at the caller's effective prices.
// @Tags         Foods
// @Produce      json
// @Param        Authorization header string false "Bearer token (optional)"
// @Success      200 {object} dto.SuccessResponse{data=[]model.FoodScore} "Ranking"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid JWT token"
// @Router       /api/foods/ranking [get]
func (h *Handler) FoodRanking(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.optimizer.RankFoods(h.effectivePrices(c, nil)))
}

// Optimize handles POST /api/plans/optimize requests.
//
// @Summary      Build a weekly meal plan
// @Description  Builds a seven-day meal plan and shopping list for the family within the weekly budget. Prices resolve as reference cost, then the caller's price book, then food_prices from the request. Supports idempotency via Idempotency-Key header.
// @Tags         Plans
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        Authorization header string false "Bearer token (optional)"
// @Param        request body dto.OptimizeRequest true "Family and budget"
// @Success      200 {object} dto.SuccessResponse{data=model.PlanResult} "Meal plan"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - invalid JWT token"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/plans/optimize [post]
func (h *Handler) Optimize(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.OptimizeRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	input := req.ToInput(h.effectivePrices(c, req.FoodPrices), h.defaultCurrency)
	builder.SuccessOK(h.optimizer.Optimize(input))
}

// BudgetSuggestions handles POST /api/suggestions/budget requests.
//
// @Summary      Budget suggestions
// @Description  Suggestions from budget utilization, nutrition coverage, family composition, food prices and the current season.
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Param        request body dto.BudgetSuggestionsRequest true "Plan figures"
// @Success      200 {object} dto.SuccessResponse{data=dto.SuggestionsResponse} "Suggestions"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Router       /api/suggestions/budget [post]
func (h *Handler) BudgetSuggestions(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.BudgetSuggestionsRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	suggestions := h.suggestions.BudgetSuggestions(
		req.FamilyMembers,
		req.WeeklyBudget,
		req.BudgetUsed,
		req.NutritionCoverage,
		h.effectivePrices(c, req.FoodPrices),
	)
	builder.SuccessOK(dto.NewSuggestionsResponse(suggestions))
}

// MealPlanSuggestions handles POST /api/suggestions/meal-plan requests.
//
// @Summary      Meal plan suggestions
// @Description  Variety and protein distribution suggestions for a plan.
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Param        request body dto.MealPlanSuggestionsRequest true "Plan"
// @Success      200 {object} dto.SuccessResponse{data=dto.SuggestionsResponse} "Suggestions"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Router       /api/suggestions/meal-plan [post]
func (h *Handler) MealPlanSuggestions(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.MealPlanSuggestionsRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	builder.SuccessOK(dto.NewSuggestionsResponse(h.suggestions.MealPlanSuggestions(req.Plan)))
}

// PersonalizedTips handles POST /api/suggestions/personalized requests.
//
// @Summary      Personalized tips
// @Description  Compares the current plan with earlier plans. Without a history in the body, authenticated callers are compared with their saved plans.
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Param        Authorization header string false "Bearer token (optional)"
// @Param        request body dto.PersonalizedTipsRequest true "Current plan and history"
// @Success      200 {object} dto.SuccessResponse{data=dto.SuggestionsResponse} "Suggestions"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Router       /api/suggestions/personalized [post]
func (h *Handler) PersonalizedTips(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := decodeRequest[dto.PersonalizedTipsRequest](c)
	if err != nil {
		builder.BadRequest(err)
		return
	}

	history := req.History
	if len(history) == 0 {
		history = h.savedHistory(c)
	}

	builder.SuccessOK(dto.NewSuggestionsResponse(h.suggestions.PersonalizedTips(history, req.Current)))
}

// savedHistory loads the caller's latest saved plans. Failures degrade to no history.
func (h *Handler) savedHistory(c *gin.Context) []model.PlanResult {
	session := middleware.GetSession(c)
	if h.savedPlans == nil || session.Anonymous() {
		return nil
	}
	history, err := h.savedPlans.History(c.Request.Context(), session, h.historyDepth)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("Saved plan history unavailable")
		return nil
	}
	return history
}
