package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/metrics"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	RateStore         middleware.RateStore
	RequestTimeout    time.Duration
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	IdempotencyStore  middleware.ReplayStore
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	LoggingService    service.LoggingService
	AsyncLogger       *middleware.AsyncLogger
	AuthService       service.AuthService
	SavedPlanService  service.SavedPlanService
	PriceBookService  service.PriceBookService
	ProfileService    service.ProfileService
	UserAdminService  service.UserAdminService
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
		EnableAuth: false,
	}
}

// NewRouter builds the engine: probes and docs at the root, planning under
// /api, and the account and admin routes when an AuthService is configured.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	if cfg.EnableIdempotency && cfg.IdempotencyStore == nil {
		cfg.IdempotencyStore = middleware.NewMemoryReplayStore()
	}

	router := gin.New()
	router.Use(globalMiddleware(&cfg)...)
	mountInfrastructure(router, healthHandler, &cfg)

	api := router.Group("/api", apiMiddleware(&cfg)...)

	var (
		protected *gin.RouterGroup
		mounts    []Routes
	)
	if handler != nil {
		mounts = append(mounts, NewPlanRoutes(handler, &cfg))
	}
	if cfg.AuthService != nil {
		protected = sessionGroup(api, &cfg)
		admin := NewAdminHandler(optimizerOf(handler), cfg.LoggingService, cfg.UserAdminService)
		mounts = append(mounts, NewAuthRoutes(&cfg), NewAccountRoutes(&cfg), NewAdminRoutes(admin))
	}
	for _, m := range mounts {
		m.Mount(api, protected)
	}

	return router
}

func optimizerOf(handler *Handler) service.Optimizer {
	if handler == nil {
		return nil
	}
	return handler.optimizer
}

// globalMiddleware runs on every route, probes included.
func globalMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.CORS(cfg.CORSOrigins),
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression("/metrics", "/healthz", "/readyz"),
		middleware.WithAsyncLogger(cfg.AsyncLogger),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
		withAuditLog(cfg.LoggingService),
	}
	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.NewRateLimiter(cfg.RateStore, cfg.RateLimit, cfg.RateWindow).ByClientIP())
	}
	return chain
}

// withAuditLog exposes logs to handlers that record audit entries.
func withAuditLog(logs service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(loggingServiceKey, logs)
		c.Next()
	}
}

// apiMiddleware applies to /api only. API keys guard the API when JWT auth
// is not in use.
func apiMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	var chain []gin.HandlerFunc
	if cfg.RequestTimeout > 0 {
		chain = append(chain, middleware.TimeoutWithDuration(cfg.RequestTimeout))
	}
	if cfg.EnableAuth && cfg.AuthService == nil && len(cfg.APIKeys) > 0 {
		chain = append(chain, middleware.APIKeyAuth(cfg.APIKeys))
	}
	return chain
}

// mountInfrastructure registers the probes, metrics and Swagger UI. Swagger
// sits behind basic auth when credentials are configured.
func mountInfrastructure(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs := router.Group("/swagger")
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		docs.Use(gin.BasicAuth(gin.Accounts{cfg.SwaggerUser: cfg.SwaggerPass}))
	}
	docs.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
