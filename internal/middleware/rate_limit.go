package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/logger"
)

const (
	rateShards       = 16
	rateStoreTimeout = 100 * time.Millisecond
)

// Quota is the outcome of taking one request from a fixed window.
type Quota struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// RateStore counts requests per key in fixed windows.
type RateStore interface {
	Take(ctx context.Context, key string, limit int, window time.Duration) (Quota, error)
}

// RateLimiter enforces limit requests per window for each caller.
// When the store fails the request is let through.
type RateLimiter struct {
	store  RateStore
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter over store. A nil store keeps counters in process.
func NewRateLimiter(store RateStore, limit int, window time.Duration) *RateLimiter {
	if store == nil {
		store = NewMemoryRateStore()
	}
	return &RateLimiter{store: store, limit: limit, window: window}
}

// ByClientIP limits anonymous traffic per client address.
func (rl *RateLimiter) ByClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.allow(c, "ip:"+c.ClientIP()) {
			c.Next()
		}
	}
}

// BySession limits per signed-in user. Anonymous requests fall back to the IP.
func (rl *RateLimiter) BySession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.allow(c, sessionKey(c)) {
			c.Next()
		}
	}
}

func sessionKey(c *gin.Context) string {
	if session := GetSession(c); !session.Anonymous() {
		return "user:" + session.UserID.Hex()
	}
	return "ip:" + c.ClientIP()
}

// allow takes a request from key's window and writes the rate limit headers.
func (rl *RateLimiter) allow(c *gin.Context, key string) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), rateStoreTimeout)
	defer cancel()

	quota, err := rl.store.Take(ctx, key, rl.limit, rl.window)
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("Rate limit store unavailable, allowing request")
		return true
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(quota.Remaining))
	c.Header("X-RateLimit-Reset", strconv.Itoa(ceilSeconds(quota.ResetIn)))
	if !quota.Allowed {
		c.Header("Retry-After", strconv.Itoa(ceilSeconds(quota.ResetIn)))
		abortWithError(c, http.StatusTooManyRequests, dto.ErrCodeRateLimit, i18n.ErrKeyRateLimitExceeded)
		return false
	}
	return true
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

type rateShard struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

// MemoryRateStore keeps windows in process, sharded by key hash to spread
// lock contention. Expired windows are swept once a minute.
type MemoryRateStore struct {
	shards   [rateShards]rateShard
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemoryRateStore starts a store and its sweeper.
func NewMemoryRateStore() *MemoryRateStore {
	s := &MemoryRateStore{now: time.Now, stopCh: make(chan struct{})}
	for i := range s.shards {
		s.shards[i].windows = make(map[string]*rateWindow)
	}
	go s.sweepLoop()
	return s
}

func (s *MemoryRateStore) shard(key string) *rateShard {
	return &s.shards[xxhash.Sum64String(key)%rateShards]
}

// Take implements RateStore.
func (s *MemoryRateStore) Take(_ context.Context, key string, limit int, window time.Duration) (Quota, error) {
	sh := s.shard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	w, ok := sh.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &rateWindow{resetAt: now.Add(window)}
		sh.windows[key] = w
	}

	resetIn := w.resetAt.Sub(now)
	if w.count >= limit {
		return Quota{Allowed: false, Remaining: 0, ResetIn: resetIn}, nil
	}
	w.count++
	return Quota{Allowed: true, Remaining: limit - w.count, ResetIn: resetIn}, nil
}

func (s *MemoryRateStore) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryRateStore) sweep() {
	now := s.now()
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for key, w := range sh.windows {
			if !now.Before(w.resetAt) {
				delete(sh.windows, key)
			}
		}
		sh.mu.Unlock()
	}
}

// Len returns the number of live windows.
func (s *MemoryRateStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.windows)
		sh.mu.Unlock()
	}
	return n
}

// Stop ends the sweeper. It is safe to call more than once.
func (s *MemoryRateStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// takeScript increments the window counter and starts its expiry on the
// first hit, returning the count and the milliseconds left.
var takeScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RedisRateStore shares windows between replicas.
type RedisRateStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisRateStore counts under prefix+key.
func NewRedisRateStore(client redis.Scripter, prefix string) *RedisRateStore {
	return &RedisRateStore{client: client, prefix: prefix}
}

// Take implements RateStore.
func (s *RedisRateStore) Take(ctx context.Context, key string, limit int, window time.Duration) (Quota, error) {
	res, err := takeScript.Run(ctx, s.client, []string{s.prefix + key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Quota{}, err
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if ttl < 0 {
		ttl = window
	}
	if count > limit {
		return Quota{Allowed: false, Remaining: 0, ResetIn: ttl}, nil
	}
	return Quota{Allowed: true, Remaining: limit - count, ResetIn: ttl}, nil
}
