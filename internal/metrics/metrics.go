// Package metrics provides Prometheus collectors for the planner service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, route and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, route and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// PlanOptimizationsTotal counts optimizer runs by result source (computed or cached).
	PlanOptimizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_optimizations_total",
			Help: "Total number of meal plan optimizations",
		},
		[]string{"source"},
	)

	// PlanOptimizationDuration tracks how long an optimization takes, cache lookups included.
	PlanOptimizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan_optimization_duration_seconds",
			Help:    "Meal plan optimization duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	// PlanBudgetUtilization observes the spend/budget ratio of computed plans.
	PlanBudgetUtilization = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan_budget_utilization_ratio",
			Help:    "Budget utilization of computed plans",
			Buckets: []float64{0.25, 0.5, 0.7, 0.9, 1.0, 1.25, 1.5, 2},
		},
	)

	// SuggestionsTotal counts generated suggestions.
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_generated_total",
			Help: "Total number of suggestions generated",
		},
		[]string{"source", "category", "priority"},
	)

	// SavedPlanOperationsTotal counts saved plan operations by outcome.
	SavedPlanOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saved_plan_operations_total",
			Help: "Total number of saved plan operations",
		},
		[]string{"operation", "result"},
	)

	// LogEntriesTotal counts request and audit log entries shipped to MongoDB.
	LogEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_entries_total",
			Help: "Total number of log entries by shipping outcome",
		},
		[]string{"result"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// CacheSize tracks the number of plans held in memory.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plan_cache_size",
			Help: "Current plan cache size",
		},
	)

	// CircuitBreakerState exposes breaker state (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordOptimization records one optimizer call.
func RecordOptimization(duration time.Duration, source string) {
	PlanOptimizationDuration.Observe(duration.Seconds())
	PlanOptimizationsTotal.WithLabelValues(source).Inc()
}

// RecordUtilization observes the utilization of a computed plan. Non-finite
// ratios (zero budget) are skipped.
func RecordUtilization(ratio float64) {
	if ratio >= 0 && ratio <= 1e6 {
		PlanBudgetUtilization.Observe(ratio)
	}
}

// RecordSuggestion counts one generated suggestion.
func RecordSuggestion(source, category, priority string) {
	SuggestionsTotal.WithLabelValues(source, category, priority).Inc()
}

// RecordSavedPlanOperation counts a saved plan operation.
func RecordSavedPlanOperation(operation, result string) {
	SavedPlanOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordLogEntries counts n log entries with the given outcome
// (enqueued, dropped, written or failed).
func RecordLogEntries(result string, n int) {
	LogEntriesTotal.WithLabelValues(result).Add(float64(n))
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(backend, operation, result string) {
	CacheOperationsTotal.WithLabelValues(backend, operation, result).Inc()
}

// UpdateCacheSize sets the in-memory plan cache size.
func UpdateCacheSize(size int) {
	CacheSize.Set(float64(size))
}

// SetCircuitBreakerState publishes a breaker state.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
