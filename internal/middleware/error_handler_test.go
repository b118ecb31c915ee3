package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/nutriplan-service/internal/circuitbreaker"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		handler     gin.HandlerFunc
		wantStatus  int
		wantBody    string
		mustContain []string
	}{
		{
			name:        "unanswered error becomes 500",
			handler:     func(c *gin.Context) { _ = c.Error(errors.New("optimizer exploded")) },
			wantStatus:  http.StatusInternalServerError,
			mustContain: []string{"internal_error", "An unexpected error occurred", "request_id"},
		},
		{
			name: "bind error becomes 400",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("weeklyBudget: expected number")).SetType(gin.ErrorTypeBind)
			},
			wantStatus:  http.StatusBadRequest,
			mustContain: []string{"invalid_request"},
		},
		{
			name: "deadline becomes 504",
			handler: func(c *gin.Context) {
				_ = c.Error(fmt.Errorf("list saved plans: %w", context.DeadlineExceeded))
			},
			wantStatus:  http.StatusGatewayTimeout,
			mustContain: []string{"timeout"},
		},
		{
			name: "open circuit becomes 503",
			handler: func(c *gin.Context) {
				_ = c.Error(fmt.Errorf("price book: %w", circuitbreaker.ErrCircuitOpen))
			},
			wantStatus:  http.StatusServiceUnavailable,
			mustContain: []string{"service_unavailable"},
		},
		{
			name: "written response is kept",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("logged only"))
				c.String(http.StatusAccepted, "queued")
			},
			wantStatus: http.StatusAccepted,
			wantBody:   "queued",
		},
		{
			name:       "no errors",
			handler:    func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler())
			router.GET("/api/plan", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/plan", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			for _, substr := range tt.mustContain {
				assert.Contains(t, w.Body.String(), substr)
			}
		})
	}
}

func TestErrorLevel(t *testing.T) {
	bind := &gin.Error{Err: errors.New("bad json"), Type: gin.ErrorTypeBind}
	private := &gin.Error{Err: errors.New("boom"), Type: gin.ErrorTypePrivate}

	assert.Equal(t, zerolog.DebugLevel, errorLevel(bind, http.StatusBadRequest))
	assert.Equal(t, zerolog.WarnLevel, errorLevel(private, http.StatusNotFound))
	assert.Equal(t, zerolog.ErrorLevel, errorLevel(private, http.StatusServiceUnavailable))
}
