package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestMemoryStore(t *testing.T) (*MemoryRateStore, *time.Time) {
	t.Helper()
	now := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	s := NewMemoryRateStore()
	s.now = func() time.Time { return now }
	t.Cleanup(s.Stop)
	return s, &now
}

func TestMemoryRateStore_Take(t *testing.T) {
	ctx := context.Background()
	s, now := newTestMemoryStore(t)

	var got []Quota
	for range 4 {
		q, err := s.Take(ctx, "ip:10.0.0.7", 3, time.Minute)
		require.NoError(t, err)
		got = append(got, q)
	}

	assert.Equal(t, []Quota{
		{Allowed: true, Remaining: 2, ResetIn: time.Minute},
		{Allowed: true, Remaining: 1, ResetIn: time.Minute},
		{Allowed: true, Remaining: 0, ResetIn: time.Minute},
		{Allowed: false, Remaining: 0, ResetIn: time.Minute},
	}, got)

	t.Run("other keys have their own window", func(t *testing.T) {
		q, err := s.Take(ctx, "ip:10.0.0.8", 3, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, q.Remaining)
	})

	t.Run("reset in counts down", func(t *testing.T) {
		*now = now.Add(40 * time.Second)
		q, err := s.Take(ctx, "ip:10.0.0.7", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, q.Allowed)
		assert.Equal(t, 20*time.Second, q.ResetIn)
	})

	t.Run("window reopens after it expires", func(t *testing.T) {
		*now = now.Add(20 * time.Second)
		q, err := s.Take(ctx, "ip:10.0.0.7", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, q.Allowed)
		assert.Equal(t, 2, q.Remaining)
	})
}

func TestMemoryRateStore_Sweep(t *testing.T) {
	ctx := context.Background()
	s, now := newTestMemoryStore(t)

	_, _ = s.Take(ctx, "user:a", 5, time.Minute)
	_, _ = s.Take(ctx, "user:b", 5, time.Hour)
	require.Equal(t, 2, s.Len())

	*now = now.Add(2 * time.Minute)
	s.sweep()

	assert.Equal(t, 1, s.Len())
}

func TestMemoryRateStore_ConcurrentTake(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestMemoryStore(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, _ := s.Take(ctx, "ip:shared", 30, time.Minute)
			if q.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 30, allowed)
}

func TestMemoryRateStore_StopIsIdempotent(t *testing.T) {
	s := NewMemoryRateStore()
	s.Stop()
	assert.NotPanics(t, s.Stop)
}

func TestCeilSeconds(t *testing.T) {
	assert.Equal(t, 0, ceilSeconds(0))
	assert.Equal(t, 1, ceilSeconds(time.Millisecond))
	assert.Equal(t, 60, ceilSeconds(time.Minute))
	assert.Equal(t, 61, ceilSeconds(time.Minute+time.Millisecond))
}

func TestRateLimiter_ByClientIP(t *testing.T) {
	rl := NewRateLimiter(nil, 2, time.Minute)

	router := gin.New()
	router.Use(RequestID(), rl.ByClientIP())
	router.GET("/api/foods", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/foods", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := request("10.1.1.1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, request("10.1.1.1").Code)

	w = request("10.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	assert.Equal(t, http.StatusOK, request("10.1.1.2").Code, "another address has its own window")
}

func TestRateLimiter_BySession(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute)
	asha, ravi := primitive.NewObjectID(), primitive.NewObjectID()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			oid, _ := primitive.ObjectIDFromHex(id)
			SetSession(c, model.Session{UserID: oid})
		}
		c.Next()
	})
	router.Use(rl.BySession())
	router.GET("/api/saved-plans", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/saved-plans", nil)
		req.RemoteAddr = "192.168.1.20:5000"
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	// Two accounts behind the same address.
	assert.Equal(t, http.StatusOK, request(asha.Hex()))
	assert.Equal(t, http.StatusOK, request(ravi.Hex()))
	assert.Equal(t, http.StatusTooManyRequests, request(asha.Hex()))

	assert.Equal(t, http.StatusOK, request(""), "anonymous falls back to the address")
	assert.Equal(t, http.StatusTooManyRequests, request(""))
}

type failingRateStore struct{}

func (failingRateStore) Take(context.Context, string, int, time.Duration) (Quota, error) {
	return Quota{}, errors.New("redis: connection refused")
}

func TestRateLimiter_StoreErrorAllowsRequest(t *testing.T) {
	rl := NewRateLimiter(failingRateStore{}, 1, time.Minute)

	router := gin.New()
	router.Use(rl.ByClientIP())
	router.GET("/api/foods", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 3 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/foods", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}
