package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutriplan-service/internal/logger"
)

const (
	// IdempotencyKeyHeader names the client supplied deduplication key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the replay store.
	IdempotencyReplayedHeader = "Idempotent-Replayed"
	// DefaultIdempotencyTTL is how long a response stays replayable.
	DefaultIdempotencyTTL = 5 * time.Minute

	maxIdempotentBody    = 1 << 20
	replayStoreTimeout   = 200 * time.Millisecond
	maxIdempotencyKeyLen = 255
)

// IdempotencyConfig configures Idempotency.
type IdempotencyConfig struct {
	Store ReplayStore
	TTL   time.Duration
}

// Idempotency replays the stored 2xx response for a repeated POST, PUT or
// PATCH carrying the same Idempotency-Key. Keys are scoped to the caller,
// the route and the request body, so reusing a key with a different
// payload runs the handler again.
//
// Store failures never fail the request; the handler simply runs.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || len(key) > maxIdempotencyKeyLen || !mutating(c.Request.Method) {
			c.Next()
			return
		}

		replayKey, ok := scopeKey(c, key)
		if !ok {
			c.Next()
			return
		}
		log := logger.FromContext(c.Request.Context())

		ctx, cancel := context.WithTimeout(c.Request.Context(), replayStoreTimeout)
		stored, err := cfg.Store.Get(ctx, replayKey)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("Replay store lookup failed")
		}
		if stored != nil {
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		capture := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		status := capture.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		resp := &StoredResponse{
			Status:      status,
			ContentType: capture.Header().Get("Content-Type"),
			Body:        capture.body.Bytes(),
		}
		ctx, cancel = context.WithTimeout(context.WithoutCancel(c.Request.Context()), replayStoreTimeout)
		defer cancel()
		if err := cfg.Store.Put(ctx, replayKey, resp, cfg.TTL); err != nil {
			log.Warn().Err(err).Msg("Replay store write failed")
		}
	}
}

func mutating(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// scopeKey hashes the key with the caller, method, route and body. It
// restores the body for the handler and gives up on oversized bodies.
func scopeKey(c *gin.Context, key string) (string, bool) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotentBody+1))
		if err != nil {
			return "", false
		}
		c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), c.Request.Body))
		if len(body) > maxIdempotentBody {
			return "", false
		}
	}

	caller := "ip:" + c.ClientIP()
	if session := GetSession(c); !session.Anonymous() {
		caller = "user:" + session.UserID.Hex()
	}

	h := sha256.New()
	for _, part := range []string{key, caller, c.Request.Method, c.FullPath()} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), true
}

// captureWriter tees the response body.
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
