package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/logger"
)

// TimeoutConfig holds configuration for the timeout middleware.
type TimeoutConfig struct {
	// Timeout is the budget for routes without an entry in Routes.
	Timeout time.Duration
	// Routes overrides the budget per route pattern, e.g. "/api/saved-plans/:id".
	Routes map[string]time.Duration
}

// DefaultTimeoutConfig returns the budget used when none is configured.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Timeout: 10 * time.Second,
	}
}

func (cfg TimeoutConfig) budget(route string) time.Duration {
	if d, ok := cfg.Routes[route]; ok && d > 0 {
		return d
	}
	return cfg.Timeout
}

// Timeout puts a deadline on the request context. MongoDB calls made with
// that context stop at the deadline; when the handler then returns without
// writing, the client gets a 504 envelope.
//
// Handlers run on the request goroutine, so a CPU-bound handler that ignores
// its context finishes and responds normally.
func Timeout(cfg TimeoutConfig) gin.HandlerFunc {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeoutConfig().Timeout
	}

	return func(c *gin.Context) {
		budget := cfg.budget(c.FullPath())

		ctx, cancel := context.WithTimeout(c.Request.Context(), budget)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		logger.FromContext(ctx).Warn().
			Dur("budget", budget).
			Dur("elapsed", time.Since(start)).
			Str("route", c.FullPath()).
			Msg("Request exceeded its time budget")

		if !c.Writer.Written() {
			abortWithError(c, http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout)
		}
	}
}

// TimeoutWithDuration applies one budget to every route.
func TimeoutWithDuration(timeout time.Duration) gin.HandlerFunc {
	return Timeout(TimeoutConfig{Timeout: timeout})
}
