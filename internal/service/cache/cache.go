// Package cache holds the plan cache contract and its Redis backend.
package cache

import "github.com/guttosm/nutriplan-service/internal/domain/model"

// Cache stores optimizer results keyed by the input fingerprint. Backends
// report failures as misses; a plan can always be recomputed.
type Cache interface {
	Get(key string) (model.PlanResult, bool)
	Set(key string, value model.PlanResult)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics is a snapshot of a cache's counters.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// Measured is a Cache that reports its counters.
type Measured interface {
	Cache
	Metrics() Metrics
}
