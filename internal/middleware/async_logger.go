package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/metrics"
	"github.com/guttosm/nutriplan-service/internal/service"
)

const asyncLoggerKey = "async_logger"

// AsyncLoggerConfig holds configuration for the async logger.
type AsyncLoggerConfig struct {
	// BufferSize is how many entries may wait for shipping before new ones are dropped.
	BufferSize int
	// BatchSize is the largest bulk insert.
	BatchSize int
	// FlushInterval bounds how long a partial batch waits.
	FlushInterval time.Duration
	// WriteTimeout bounds a single bulk insert.
	WriteTimeout time.Duration
}

// DefaultAsyncLoggerConfig returns the defaults used by the service.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:    1000,
		BatchSize:     50,
		FlushInterval: time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

func (c AsyncLoggerConfig) withDefaults() AsyncLoggerConfig {
	d := DefaultAsyncLoggerConfig()
	if c.BufferSize <= 0 {
		c.BufferSize = d.BufferSize
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = d.FlushInterval
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	return c
}

// AsyncLogger ships request and audit log entries to MongoDB in batches from
// a single goroutine. Log never blocks: entries are dropped when the buffer is
// full or after Stop.
type AsyncLogger struct {
	loggingService service.LoggingService
	cfg            AsyncLoggerConfig
	entryCh        chan *model.LogEntry

	mu      sync.RWMutex
	stopped bool
	stopCh  chan struct{}
	done    chan struct{}

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewAsyncLogger starts a shipper writing through loggingService. It returns
// nil when loggingService is nil.
func NewAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if loggingService == nil {
		return nil
	}

	cfg = cfg.withDefaults()
	al := &AsyncLogger{
		loggingService: loggingService,
		cfg:            cfg,
		entryCh:        make(chan *model.LogEntry, cfg.BufferSize),
		stopCh:         make(chan struct{}),
		done:           make(chan struct{}),
	}
	go al.run()
	return al
}

func (al *AsyncLogger) run() {
	defer close(al.done)

	ticker := time.NewTicker(al.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*model.LogEntry, 0, al.cfg.BatchSize)
	for {
		select {
		case entry := <-al.entryCh:
			batch = append(batch, entry)
			if len(batch) >= al.cfg.BatchSize {
				batch = al.flush(batch)
			}
		case <-ticker.C:
			batch = al.flush(batch)
		case <-al.stopCh:
			for {
				select {
				case entry := <-al.entryCh:
					batch = append(batch, entry)
					if len(batch) >= al.cfg.BatchSize {
						batch = al.flush(batch)
					}
				default:
					al.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes batch and returns an empty batch to fill next.
func (al *AsyncLogger) flush(batch []*model.LogEntry) []*model.LogEntry {
	if len(batch) == 0 {
		return batch
	}

	ctx, cancel := context.WithTimeout(context.Background(), al.cfg.WriteTimeout)
	defer cancel()

	if err := al.loggingService.CreateLogs(ctx, batch); err != nil {
		al.failed.Add(int64(len(batch)))
		metrics.RecordLogEntries("failed", len(batch))
		log := logger.Logger()
		log.Warn().Err(err).Int("entries", len(batch)).Msg("Failed to ship log batch")
	} else {
		al.written.Add(int64(len(batch)))
		metrics.RecordLogEntries("written", len(batch))
	}
	return make([]*model.LogEntry, 0, al.cfg.BatchSize)
}

// Log enqueues entry and reports whether it was accepted.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	al.mu.RLock()
	defer al.mu.RUnlock()

	if al.stopped {
		al.drop()
		return false
	}

	select {
	case al.entryCh <- entry:
		al.enqueued.Add(1)
		metrics.RecordLogEntries("enqueued", 1)
		return true
	default:
		al.drop()
		return false
	}
}

func (al *AsyncLogger) drop() {
	al.dropped.Add(1)
	metrics.RecordLogEntries("dropped", 1)
}

// Stop ships the buffered entries and waits for the shipper to exit.
// It is safe to call more than once.
func (al *AsyncLogger) Stop() {
	al.mu.Lock()
	if !al.stopped {
		al.stopped = true
		close(al.stopCh)
	}
	al.mu.Unlock()

	<-al.done
}

// Stats returns the entry counters.
func (al *AsyncLogger) Stats() (enqueued, dropped, written, failed int64) {
	return al.enqueued.Load(), al.dropped.Load(), al.written.Load(), al.failed.Load()
}

// WithAsyncLogger makes al available to RequestLogger and AuditLog for the
// rest of the chain. A nil al leaves them on their direct-write fallback.
func WithAsyncLogger(al *AsyncLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if al != nil {
			c.Set(asyncLoggerKey, al)
		}
		c.Next()
	}
}

func asyncLoggerFrom(c *gin.Context) *AsyncLogger {
	if v, ok := c.Get(asyncLoggerKey); ok {
		if al, ok := v.(*AsyncLogger); ok {
			return al
		}
	}
	return nil
}

// dispatch hands entry to the request's async logger, or writes it on a
// short-lived goroutine when none is installed.
func dispatch(c *gin.Context, loggingService service.LoggingService, entry *model.LogEntry) {
	if al := asyncLoggerFrom(c); al != nil {
		al.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
