package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/middleware"
)

// AuthRoutes serves sign-in and token refresh publicly, and logout to
// authenticated callers.
type AuthRoutes struct {
	handler *AuthHandler
}

// NewAuthRoutes creates the auth routes.
func NewAuthRoutes(cfg *RouterConfig) *AuthRoutes {
	return &AuthRoutes{handler: NewAuthHandler(cfg.AuthService)}
}

// Mount implements Routes.
func (r *AuthRoutes) Mount(api, protected *gin.RouterGroup) {
	public := api.Group("/auth")
	public.POST("/login", r.handler.Login)
	public.POST("/register", r.handler.Register)
	public.POST("/refresh", r.handler.Refresh)

	protected.POST("/auth/logout", r.handler.Logout)
	protected.POST("/auth/logout-all", r.handler.LogoutAll)
}

// AccountRoutes registers the routes that act on the caller's own data.
type AccountRoutes struct {
	savedPlans *SavedPlansHandler
	prices     *PricesHandler
	profile    *ProfileHandler
	cfg        *RouterConfig
}

// NewAccountRoutes creates the account route registrar from cfg's services.
// Routes whose service is not configured are not registered.
func NewAccountRoutes(cfg *RouterConfig) *AccountRoutes {
	r := &AccountRoutes{cfg: cfg}
	if cfg.SavedPlanService != nil {
		r.savedPlans = NewSavedPlansHandler(cfg.SavedPlanService)
	}
	if cfg.PriceBookService != nil {
		r.prices = NewPricesHandler(cfg.PriceBookService)
	}
	if cfg.ProfileService != nil {
		r.profile = NewProfileHandler(cfg.ProfileService)
	}
	return r
}

// Mount implements Routes.
func (r *AccountRoutes) Mount(_, protected *gin.RouterGroup) {
	if r.savedPlans != nil {
		plans := protected.Group("/saved-plans")
		plans.GET("", r.savedPlans.List)
		plans.POST("", idempotent(r.cfg, r.savedPlans.Save)...)
		plans.GET("/:id", r.savedPlans.Get)
		plans.PUT("/:id", r.savedPlans.Update)
		plans.DELETE("/:id", r.savedPlans.Delete)
	}

	if r.prices != nil {
		protected.GET("/prices", r.prices.GetActive)
		protected.PUT("/prices", r.prices.Update)
		protected.GET("/prices/history", r.prices.History)
	}

	if r.profile != nil {
		protected.GET("/profile", r.profile.Get)
		protected.PUT("/profile", r.profile.Update)
	}
}

// AdminRoutes registers operator routes restricted to the admin role.
type AdminRoutes struct {
	handler *AdminHandler
}

// NewAdminRoutes creates a new AdminRoutes instance.
func NewAdminRoutes(handler *AdminHandler) *AdminRoutes {
	return &AdminRoutes{handler: handler}
}

// Mount implements Routes.
func (r *AdminRoutes) Mount(_, protected *gin.RouterGroup) {
	admin := protected.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	if r.handler.optimizer != nil {
		admin.DELETE("/cache", r.handler.ClearCache)
	}
	admin.GET("/logs", r.handler.Logs)
	if r.handler.users != nil {
		admin.GET("/users", r.handler.ListUsers)
		admin.PATCH("/users/:id", r.handler.UpdateUser)
	}
}
