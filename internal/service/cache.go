// Package service contains the business logic of the planner service.
package service

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/metrics"
	"github.com/guttosm/nutriplan-service/internal/service/cache"
)

const memoryBackend = "memory"

// ShardedCache spreads plan results over independently locked LRU shards.
type ShardedCache struct {
	shards    []*ttlCache
	shardMask uint64
	stopOnce  sync.Once
	stopCh    chan struct{}
}

// NewShardedCache creates a cache of the given total capacity. numShards is
// rounded up to a power of two (16 when not positive).
func NewShardedCache(capacity int, ttl time.Duration, numShards int) *ShardedCache {
	if numShards <= 0 {
		numShards = 16
	}
	n := 1
	for n < numShards {
		n <<= 1
	}

	perShard := max(capacity/n, 1)

	sc := &ShardedCache{
		shards:    make([]*ttlCache, n),
		shardMask: uint64(n - 1),
		stopCh:    make(chan struct{}),
	}
	for i := range sc.shards {
		sc.shards[i] = newTTLCache(perShard, ttl, time.Now)
	}
	go sc.sweep(time.Minute)
	return sc
}

func (sc *ShardedCache) shard(key string) *ttlCache {
	return sc.shards[xxhash.Sum64String(key)&sc.shardMask]
}

// Get implements cache.Cache.
func (sc *ShardedCache) Get(key string) (model.PlanResult, bool) {
	return sc.shard(key).Get(key)
}

// Set implements cache.Cache.
func (sc *ShardedCache) Set(key string, value model.PlanResult) {
	sc.shard(key).Set(key, value)
	metrics.UpdateCacheSize(sc.Metrics().Size)
}

// Invalidate implements cache.Cache.
func (sc *ShardedCache) Invalidate(key string) {
	sc.shard(key).Invalidate(key)
}

// Clear empties every shard.
func (sc *ShardedCache) Clear() {
	for _, s := range sc.shards {
		s.Clear()
	}
	metrics.UpdateCacheSize(0)
}

// Stop ends the background sweeper. Safe to call more than once.
func (sc *ShardedCache) Stop() {
	sc.stopOnce.Do(func() { close(sc.stopCh) })
}

// Metrics sums the shard metrics.
func (sc *ShardedCache) Metrics() cache.Metrics {
	var total cache.Metrics
	for _, s := range sc.shards {
		m := s.Metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

func (sc *ShardedCache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			for _, s := range sc.shards {
				s.removeExpired()
			}
		case <-sc.stopCh:
			return
		}
	}
}

// ttlCache is a mutex guarded LRU whose entries also expire after ttl.
type ttlCache struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	now       func() time.Time
	items     map[string]*list.Element
	order     *list.List
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	key       string
	value     model.PlanResult
	expiresAt time.Time
}

func newTTLCache(capacity int, ttl time.Duration, now func() time.Time) *ttlCache {
	return &ttlCache{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
		items:    make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *ttlCache) Get(key string) (model.PlanResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		metrics.RecordCacheOperation(memoryBackend, "get", "miss")
		return model.PlanResult{}, false
	}

	entry := el.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeElement(el)
		c.misses.Add(1)
		metrics.RecordCacheOperation(memoryBackend, "get", "expired")
		return model.PlanResult{}, false
	}

	c.order.MoveToFront(el)
	c.hits.Add(1)
	metrics.RecordCacheOperation(memoryBackend, "get", "hit")
	return entry.value, true
}

func (c *ttlCache) Set(key string, value model.PlanResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, value: value, expiresAt: expiresAt})
	if c.order.Len() > c.capacity {
		c.removeElement(c.order.Back())
		c.evictions.Add(1)
		metrics.RecordCacheOperation(memoryBackend, "evict", "capacity")
	}
	metrics.RecordCacheOperation(memoryBackend, "set", "success")
}

func (c *ttlCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		metrics.RecordCacheOperation(memoryBackend, "invalidate", "success")
	}
}

func (c *ttlCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element, c.capacity)
	c.order.Init()
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
	metrics.RecordCacheOperation(memoryBackend, "clear", "success")
}

// Stop is a no-op; expiry sweeps are driven by the owning ShardedCache.
func (c *ttlCache) Stop() {}

func (c *ttlCache) Metrics() cache.Metrics {
	c.mu.Lock()
	size := len(c.items)
	c.mu.Unlock()

	return cache.Metrics{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      size,
		Capacity:  c.capacity,
	}
}

func (c *ttlCache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.now()
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if current.After(el.Value.(*cacheEntry).expiresAt) {
			c.removeElement(el)
		}
		el = prev
	}
}

func (c *ttlCache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*cacheEntry).key)
}
