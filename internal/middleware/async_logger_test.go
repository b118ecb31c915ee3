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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/mocks"
)

// batchRecorder is a LoggingService that records every bulk insert.
type batchRecorder struct {
	mocks.MockLoggingService
	mu      sync.Mutex
	batches [][]*model.LogEntry
	err     error
	block   chan struct{}
}

func (r *batchRecorder) CreateLogs(_ context.Context, entries []*model.LogEntry) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, entries)
	return r.err
}

func (r *batchRecorder) batchSizes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sizes := make([]int, len(r.batches))
	for i, b := range r.batches {
		sizes[i] = len(b)
	}
	return sizes
}

func (r *batchRecorder) total() int {
	n := 0
	for _, s := range r.batchSizes() {
		n += s
	}
	return n
}

func TestDefaultAsyncLoggerConfig(t *testing.T) {
	cfg := DefaultAsyncLoggerConfig()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.FlushInterval)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
}

func TestAsyncLoggerConfig_WithDefaults(t *testing.T) {
	cfg := AsyncLoggerConfig{BatchSize: 10}.withDefaults()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.FlushInterval)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
}

func TestNewAsyncLogger_NilService(t *testing.T) {
	assert.Nil(t, NewAsyncLogger(nil, DefaultAsyncLoggerConfig()))
}

func TestAsyncLogger_BatchesBySize(t *testing.T) {
	rec := &batchRecorder{}
	al := NewAsyncLogger(rec, AsyncLoggerConfig{BufferSize: 100, BatchSize: 5, FlushInterval: time.Hour})

	for i := 0; i < 12; i++ {
		require.True(t, al.Log(&model.LogEntry{Message: "entry"}))
	}

	require.Eventually(t, func() bool { return rec.total() >= 10 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{5, 5}, rec.batchSizes())

	// The remainder is shipped on stop.
	al.Stop()
	assert.Equal(t, []int{5, 5, 2}, rec.batchSizes())

	enqueued, dropped, written, failed := al.Stats()
	assert.Equal(t, int64(12), enqueued)
	assert.Zero(t, dropped)
	assert.Equal(t, int64(12), written)
	assert.Zero(t, failed)
}

func TestAsyncLogger_FlushesOnInterval(t *testing.T) {
	rec := &batchRecorder{}
	al := NewAsyncLogger(rec, AsyncLoggerConfig{BatchSize: 100, FlushInterval: 20 * time.Millisecond})
	defer al.Stop()

	al.Log(&model.LogEntry{Message: "one"})
	al.Log(&model.LogEntry{Message: "two"})

	require.Eventually(t, func() bool { return rec.total() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{2}, rec.batchSizes())
}

func TestAsyncLogger_DropsWhenFull(t *testing.T) {
	rec := &batchRecorder{block: make(chan struct{})}
	al := NewAsyncLogger(rec, AsyncLoggerConfig{BufferSize: 2, BatchSize: 1, FlushInterval: time.Hour})

	// The first entry is taken by the shipper, which then blocks on the write.
	require.True(t, al.Log(&model.LogEntry{}))
	require.Eventually(t, func() bool { return len(al.entryCh) == 0 }, time.Second, time.Millisecond)

	assert.True(t, al.Log(&model.LogEntry{}))
	assert.True(t, al.Log(&model.LogEntry{}))
	assert.False(t, al.Log(&model.LogEntry{}))

	close(rec.block)
	al.Stop()

	enqueued, dropped, written, _ := al.Stats()
	assert.Equal(t, int64(3), enqueued)
	assert.Equal(t, int64(1), dropped)
	assert.Equal(t, int64(3), written)
}

func TestAsyncLogger_CountsFailedBatches(t *testing.T) {
	rec := &batchRecorder{err: errors.New("database error")}
	al := NewAsyncLogger(rec, AsyncLoggerConfig{BatchSize: 2, FlushInterval: time.Hour})

	al.Log(&model.LogEntry{})
	al.Log(&model.LogEntry{})
	al.Log(&model.LogEntry{})
	al.Stop()

	_, _, written, failed := al.Stats()
	assert.Zero(t, written)
	assert.Equal(t, int64(3), failed)
}

func TestAsyncLogger_Stop(t *testing.T) {
	rec := &batchRecorder{}
	al := NewAsyncLogger(rec, DefaultAsyncLoggerConfig())

	al.Log(&model.LogEntry{Message: "pending"})
	al.Stop()
	assert.Equal(t, 1, rec.total())

	t.Run("log after stop is dropped", func(t *testing.T) {
		assert.False(t, al.Log(&model.LogEntry{}))
		_, dropped, _, _ := al.Stats()
		assert.Equal(t, int64(1), dropped)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		assert.NotPanics(t, al.Stop)
	})
}

func TestDispatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("uses the installed async logger", func(t *testing.T) {
		rec := &batchRecorder{}
		al := NewAsyncLogger(rec, AsyncLoggerConfig{BatchSize: 1, FlushInterval: time.Hour})
		defer al.Stop()

		router := gin.New()
		router.Use(WithAsyncLogger(al))
		router.GET("/", func(c *gin.Context) {
			dispatch(c, rec, &model.LogEntry{Message: "queued"})
			c.Status(http.StatusOK)
		})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.Eventually(t, func() bool { return rec.total() == 1 }, time.Second, 5*time.Millisecond)
	})

	t.Run("falls back to a direct write", func(t *testing.T) {
		loggingService := new(mocks.MockLoggingService)
		written := make(chan struct{})
		loggingService.On("CreateLog", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { close(written) }).
			Return(nil).Once()

		router := gin.New()
		router.Use(WithAsyncLogger(nil))
		router.GET("/", func(c *gin.Context) {
			dispatch(c, loggingService, &model.LogEntry{Message: "direct"})
			c.Status(http.StatusOK)
		})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		select {
		case <-written:
		case <-time.After(time.Second):
			t.Fatal("entry was not written")
		}
		loggingService.AssertExpectations(t)
	})
}
