// Package app provides service initialization.
package app

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
	"github.com/guttosm/nutriplan-service/internal/service/cache"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Optimizer   *service.OptimizerService
	Suggestions *service.SuggestionEngine
	// RateStore and ReplayStore are shared through Redis when configured,
	// nil otherwise.
	RateStore   middleware.RateStore
	ReplayStore middleware.ReplayStore
}

// InitializeServices initializes business logic services. When Redis is
// configured and reachable it backs the plan cache, the rate limit windows
// and idempotent replays, otherwise all three stay in process.
func InitializeServices(cfg config.CacheConfig) *ServiceComponents {
	var (
		opts        []service.OptimizerOption
		rateStore   middleware.RateStore
		replayStore middleware.ReplayStore
	)

	client := connectRedis(cfg.RedisURL)
	switch {
	case client != nil:
		log.Info().Str("prefix", cfg.RedisPrefix).Msg("Using Redis for plan cache, rate limits and replays")
		opts = append(opts, service.WithPlanCacheBackend(cache.NewRedisCache(client, cfg.TTL, cache.WithPrefix(cfg.RedisPrefix))))
		rateStore = middleware.NewRedisRateStore(client, cfg.RateLimitPrefix)
		replayStore = middleware.NewRedisReplayStore(client, cfg.IdempotencyPrefix)
	case cfg.Size > 0:
		opts = append(opts, service.WithPlanCache(cfg.Size, cfg.TTL))
	}

	return &ServiceComponents{
		Optimizer:   service.NewOptimizer(opts...),
		Suggestions: service.NewSuggestionEngine(),
		RateStore:   rateStore,
		ReplayStore: replayStore,
	}
}

// connectRedis returns nil when url is empty or the server does not answer.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	client, err := cache.NewRedisClient(url)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, keeping plan cache, rate limits and replays in process")
		return nil
	}
	return client
}
