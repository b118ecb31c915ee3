package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/nutriplan-service/internal/circuitbreaker"
)

// checkTimeout bounds each readiness check.
const checkTimeout = 2 * time.Second

// Readiness status values.
const (
	statusOK       = "ok"
	statusDegraded = "degraded"
)

// HealthChecker defines the interface for health check operations.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function such as (*repository.MongoDB).HealthCheck to HealthChecker.
type CheckerFunc func(ctx context.Context) error

// Check implements HealthChecker.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler serves the liveness and readiness probes.
//
// A failing checker makes the service unready. An open circuit only marks it
// degraded: planning never needs MongoDB, and the guarded repositories fall
// back (reference prices, dropped log entries) while the circuit is open.
type HealthHandler struct {
	startedAt       time.Time
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		startedAt:       time.Now(),
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// RegisterCircuitBreaker reports cb in readiness as name+"_circuit". A nil cb is ignored.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	if cb != nil {
		h.circuitBreakers[name] = cb
	}
}

// AddChecker registers a dependency checked by the readiness probe.
func (h *HealthHandler) AddChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK while the process is serving. Metrics are available at /metrics for Prometheus scraping.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]any "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         statusOK,
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
	})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Checks MongoDB and reports the circuit guarding each collection. Open circuits mark the service degraded without failing the probe.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]any "Service is ready, possibly degraded"
// @Failure     503 {object} map[string]any "A dependency check failed"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks, failed := h.runCheckers(c.Request.Context())

	degraded := failed
	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		checks[name+"_circuit"] = stats.State
		if !stats.IsHealthy {
			degraded = true
		}
	}

	if len(checks) == 0 {
		checks["service"] = statusOK
	}

	status, code := statusOK, http.StatusOK
	if degraded {
		status = statusDegraded
	}
	if failed {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status, "checks": checks})
}

// runCheckers runs every checker concurrently, each under checkTimeout.
func (h *HealthHandler) runCheckers(ctx context.Context) (map[string]any, bool) {
	var (
		mu     sync.Mutex
		checks = make(map[string]any, len(h.checkers)+len(h.circuitBreakers))
		failed bool
		g      errgroup.Group
	)
	for name, checker := range h.checkers {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()

			err := checker.Check(checkCtx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				checks[name] = err.Error()
				failed = true
				return nil
			}
			checks[name] = statusOK
			return nil
		})
	}
	_ = g.Wait()

	return checks, failed
}
