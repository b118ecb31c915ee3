package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutriplan-service/internal/middleware"
)

// Routes mounts a set of endpoints. api is the /api group; protected is the
// same group behind JWT authentication, nil when no AuthService is configured.
type Routes interface {
	Mount(api, protected *gin.RouterGroup)
}

var (
	_ Routes = (*PlanRoutes)(nil)
	_ Routes = (*AuthRoutes)(nil)
	_ Routes = (*AccountRoutes)(nil)
	_ Routes = (*AdminRoutes)(nil)
)

// PlanRoutes serves planning and suggestions. Anonymous callers are
// accepted; a valid bearer token personalizes prices and history.
type PlanRoutes struct {
	handler *Handler
	cfg     *RouterConfig
}

// NewPlanRoutes creates the planning routes.
func NewPlanRoutes(handler *Handler, cfg *RouterConfig) *PlanRoutes {
	return &PlanRoutes{handler: handler, cfg: cfg}
}

// Mount implements Routes.
func (r *PlanRoutes) Mount(api, _ *gin.RouterGroup) {
	group := api.Group("")
	if r.cfg.AuthService != nil {
		group.Use(middleware.OptionalJWT(r.cfg.AuthService))
	}

	group.GET("/foods", r.handler.Foods)
	group.GET("/foods/ranking", r.handler.FoodRanking)
	group.POST("/plans/optimize", idempotent(r.cfg, r.handler.Optimize)...)

	group.POST("/suggestions/budget", r.handler.BudgetSuggestions)
	group.POST("/suggestions/meal-plan", r.handler.MealPlanSuggestions)
	group.POST("/suggestions/personalized", r.handler.PersonalizedTips)
}

// idempotent guards h with replay protection when it is enabled. Routes
// share cfg.IdempotencyStore; replay keys include the route.
func idempotent(cfg *RouterConfig, h gin.HandlerFunc) []gin.HandlerFunc {
	if !cfg.EnableIdempotency {
		return []gin.HandlerFunc{h}
	}
	store := cfg.IdempotencyStore
	if store == nil {
		store = middleware.NewMemoryReplayStore()
	}
	return []gin.HandlerFunc{middleware.Idempotency(middleware.IdempotencyConfig{Store: store}), h}
}

// sessionGroup returns api behind JWT authentication, limited per user.
func sessionGroup(api *gin.RouterGroup, cfg *RouterConfig) *gin.RouterGroup {
	protected := api.Group("", middleware.JWTAuth(cfg.AuthService))
	if cfg.RateLimit > 0 {
		protected.Use(middleware.NewRateLimiter(cfg.RateStore, cfg.RateLimit, cfg.RateWindow).BySession())
	}
	return protected
}
