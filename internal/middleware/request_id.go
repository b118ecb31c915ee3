// Package middleware provides the gin middleware chain of the nutriplan service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/nutriplan-service/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

const (
	requestIDContextKey = "request_id"
	maxRequestIDLength  = 128
)

// RequestID tags each request with an id, reusing the caller's X-Request-ID
// when it is usable and generating a time-ordered UUID otherwise. The id is
// echoed in the response and bound to the request's logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = newRequestID()
		}

		c.Set(requestIDContextKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), id))
		c.Next()
	}
}

// validRequestID accepts short printable ASCII ids, keeping control
// characters out of log lines.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// GetRequestID returns the id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}
