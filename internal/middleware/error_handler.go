package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/nutriplan-service/internal/circuitbreaker"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/logger"
)

// ErrorHandler logs errors attached with c.Error and answers for handlers
// that returned without writing a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		status, code, key := classifyError(last)
		if c.Writer.Written() {
			status = c.Writer.Status()
		}

		logger.FromContext(c.Request.Context()).WithLevel(errorLevel(last, status)).
			Err(last.Err).
			Int("status", status).
			Int("errors", len(c.Errors)).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Msg("Request error")

		if !c.Writer.Written() {
			abortWithError(c, status, code, key)
		}
	}
}

// classifyError picks the response for an error the handler did not answer.
func classifyError(err *gin.Error) (int, string, string) {
	switch {
	case err.IsType(gin.ErrorTypeBind):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody
	case errors.Is(err.Err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout
	case errors.Is(err.Err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, i18n.ErrKeyServiceUnavailable
	default:
		return http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
	}
}

func errorLevel(err *gin.Error, status int) zerolog.Level {
	switch {
	case err.IsType(gin.ErrorTypeBind):
		return zerolog.DebugLevel
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// abortWithError writes a translated error envelope and aborts the chain.
func abortWithError(c *gin.Context, status int, code, key string) {
	message := i18n.GetTranslator().Translate(key, i18n.GetLocale(c))
	c.AbortWithStatusJSON(status, dto.NewError(code, message).WithRequestID(GetRequestID(c)))
}
