package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StoredResponse is a response kept for replay.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ReplayStore keeps responses for Idempotency. Get returns nil, nil for
// unknown or expired keys.
type ReplayStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Put(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error
}

type storedEntry struct {
	resp      *StoredResponse
	expiresAt time.Time
}

// MemoryReplayStore keeps responses in process. Expired entries are
// dropped on read and swept at most once a minute on write.
type MemoryReplayStore struct {
	mu        sync.Mutex
	entries   map[string]storedEntry
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryReplayStore creates an empty store.
func NewMemoryReplayStore() *MemoryReplayStore {
	return &MemoryReplayStore{entries: make(map[string]storedEntry), now: time.Now}
}

// Get implements ReplayStore.
func (s *MemoryReplayStore) Get(_ context.Context, key string) (*StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	return e.resp, nil
}

// Put implements ReplayStore.
func (s *MemoryReplayStore) Put(_ context.Context, key string, resp *StoredResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= time.Minute {
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}
	s.entries[key] = storedEntry{resp: resp, expiresAt: now.Add(ttl)}
	return nil
}

// Len returns the number of entries, expired ones included until swept.
func (s *MemoryReplayStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RedisReplayStore shares replayable responses between replicas.
type RedisReplayStore struct {
	client redis.Cmdable
	prefix string
}

// NewRedisReplayStore stores responses under prefix+key.
func NewRedisReplayStore(client redis.Cmdable, prefix string) *RedisReplayStore {
	return &RedisReplayStore{client: client, prefix: prefix}
}

// Get implements ReplayStore.
func (s *RedisReplayStore) Get(ctx context.Context, key string) (*StoredResponse, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var resp StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Put implements ReplayStore.
func (s *RedisReplayStore) Put(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}
