package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/metrics"
)

const (
	redisBackend       = "redis"
	defaultRedisPrefix = "nutriplan:plan:"
	defaultOpTimeout   = 500 * time.Millisecond
	clearBatchSize     = 256
)

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisCache shares plan results between replicas. Entries are JSON encoded
// under a common prefix and expire through Redis TTLs. Backend errors are
// logged and reported as misses.
type RedisCache struct {
	client    *redis.Client
	prefix    string
	ttl       time.Duration
	opTimeout time.Duration
	hits      atomic.Int64
	misses    atomic.Int64
}

// RedisOption configures a RedisCache.
type RedisOption func(*RedisCache)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// WithOpTimeout bounds every Redis round trip.
func WithOpTimeout(d time.Duration) RedisOption {
	return func(c *RedisCache) {
		if d > 0 {
			c.opTimeout = d
		}
	}
}

// NewRedisCache wraps client. Stop closes the client.
func NewRedisCache(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisCache {
	c := &RedisCache{
		client:    client,
		prefix:    defaultRedisPrefix,
		ttl:       ttl,
		opTimeout: defaultOpTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

// Get implements Cache.
func (c *RedisCache) Get(key string) (model.PlanResult, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		metrics.RecordCacheOperation(redisBackend, "get", "miss")
		return model.PlanResult{}, false
	}
	if err != nil {
		c.misses.Add(1)
		metrics.RecordCacheOperation(redisBackend, "get", "error")
		log.Warn().Err(err).Msg("Plan cache read failed")
		return model.PlanResult{}, false
	}

	var result model.PlanResult
	if err := json.Unmarshal(raw, &result); err != nil {
		c.misses.Add(1)
		metrics.RecordCacheOperation(redisBackend, "get", "corrupt")
		return model.PlanResult{}, false
	}

	c.hits.Add(1)
	metrics.RecordCacheOperation(redisBackend, "get", "hit")
	return result, true
}

// Set implements Cache.
func (c *RedisCache) Set(key string, value model.PlanResult) {
	raw, err := json.Marshal(value)
	if err != nil {
		metrics.RecordCacheOperation(redisBackend, "set", "error")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		metrics.RecordCacheOperation(redisBackend, "set", "error")
		log.Warn().Err(err).Msg("Plan cache write failed")
		return
	}
	metrics.RecordCacheOperation(redisBackend, "set", "success")
}

// Invalidate implements Cache.
func (c *RedisCache) Invalidate(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		metrics.RecordCacheOperation(redisBackend, "invalidate", "error")
		return
	}
	metrics.RecordCacheOperation(redisBackend, "invalidate", "success")
}

// Clear deletes every key under the prefix.
func (c *RedisCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*c.opTimeout)
	defer cancel()

	batch := make([]string, 0, clearBatchSize)
	iter := c.client.Scan(ctx, 0, c.prefix+"*", clearBatchSize).Iterator()
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatchSize {
			c.client.Del(ctx, batch...)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		c.client.Del(ctx, batch...)
	}
	if err := iter.Err(); err != nil {
		metrics.RecordCacheOperation(redisBackend, "clear", "error")
		log.Warn().Err(err).Msg("Plan cache clear failed")
		return
	}

	c.hits.Store(0)
	c.misses.Store(0)
	metrics.RecordCacheOperation(redisBackend, "clear", "success")
}

// Stop closes the Redis client.
func (c *RedisCache) Stop() {
	_ = c.client.Close()
}

// Metrics reports hit and miss counts seen by this replica.
func (c *RedisCache) Metrics() Metrics {
	return Metrics{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
