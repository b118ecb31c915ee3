package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// skipPersist lists probe and scrape paths kept out of the logs collection.
var skipPersist = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger writes one line per request and, when loggingService is
// set, persists the same request as a LogEntry.
func RequestLogger(loggingService service.LoggingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		level := statusLevel(status)
		path := c.Request.URL.Path

		logger.FromContext(c.Request.Context()).WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Int("status_code", status).
			Int("bytes", c.Writer.Size()).
			Dur("duration", elapsed).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")

		if loggingService == nil || skipPersist[path] {
			return
		}

		entry := &model.LogEntry{
			Timestamp:  start.UTC(),
			Level:      level.String(),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       path,
			StatusCode: status,
			Duration:   elapsed.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}
		if last := c.Errors.Last(); last != nil {
			entry.Fail(last)
		}
		if id := GetAPIKeyID(c); id != "" {
			entry.Set("api_key_id", id)
		}
		entry.Attribute(GetSession(c))
		dispatch(c, loggingService, entry)
	}
}

func statusLevel(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
