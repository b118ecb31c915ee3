// Package app provides router configuration.
package app

import (
	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/http"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
// Account features are only wired when a database is available.
func InitializeRouter(
	services *ServiceComponents,
	dbComponents *DatabaseComponents,
	cfg config.Config,
) *RouterComponents {
	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RateStore:         services.RateStore,
		RequestTimeout:    cfg.Server.RequestTimeout,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           cfg.Auth.APIKeys,
		EnableIdempotency: true,
		IdempotencyStore:  services.ReplayStore,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
	}

	handlerOpts := []http.HandlerOption{http.WithDefaultCurrency(cfg.Planner.DefaultCurrency)}
	healthHandler := http.NewHealthHandler()

	if dbComponents != nil {
		savedPlans := service.NewSavedPlanService(dbComponents.SavedPlansRepo)
		priceBooks := service.NewPriceBookService(dbComponents.PriceBooksRepo)
		tokens := service.NewTokenService(dbComponents.TokenRepo, service.TokenConfigFrom(cfg.Auth))

		routerCfg.LoggingService = dbComponents.LoggingService
		routerCfg.AsyncLogger = dbComponents.AsyncLogger
		routerCfg.AuthService = service.NewAuthServiceWithTokenService(dbComponents.UserRepo, tokens)
		routerCfg.UserAdminService = service.NewUserAdminService(dbComponents.UserRepo, tokens)
		routerCfg.SavedPlanService = savedPlans
		routerCfg.PriceBookService = priceBooks
		routerCfg.ProfileService = service.NewProfileService(dbComponents.UserRepo, cfg.Planner.DefaultCurrency)

		handlerOpts = append(handlerOpts,
			http.WithPriceBooks(priceBooks),
			http.WithSavedPlans(savedPlans, cfg.Planner.HistoryDepth),
		)

		if dbComponents.DB != nil {
			healthHandler.AddChecker("mongodb", http.CheckerFunc(dbComponents.DB.HealthCheck))
		}
		registerCircuitBreakers(healthHandler, dbComponents)
	}

	return &RouterComponents{
		Handler:       http.NewHandler(services.Optimizer, services.Suggestions, handlerOpts...),
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}

func registerCircuitBreakers(h *http.HealthHandler, db *DatabaseComponents) {
	h.RegisterCircuitBreaker("logs", db.LogsCircuitBreaker)
	h.RegisterCircuitBreaker("saved_plans", db.SavedPlansCircuitBreaker)
	h.RegisterCircuitBreaker("price_books", db.PriceBooksCircuitBreaker)
}
