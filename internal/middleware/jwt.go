package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/logger"
	"github.com/guttosm/nutriplan-service/internal/service"
)

const (
	// SessionKey is the gin context key holding the caller's model.Session.
	SessionKey = "session"

	bearerPrefix = "Bearer "
)

// SetSession stores session on the gin context.
func SetSession(c *gin.Context, session model.Session) {
	c.Set(SessionKey, session)
}

// GetSession returns the caller's session. Requests that passed no token get
// an anonymous session.
func GetSession(c *gin.Context) model.Session {
	if v, ok := c.Get(SessionKey); ok {
		if session, ok := v.(model.Session); ok {
			return session
		}
	}
	return model.Session{}
}

// JWTAuth returns a middleware that requires a valid bearer token.
func JWTAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present := bearerToken(c)
		if !present {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyTokenRequired)
			return
		}
		if !authenticate(c, authService, tokenString) {
			return
		}
		c.Next()
	}
}

// OptionalJWT authenticates the caller when a bearer token is sent and lets
// anonymous requests through. A token that is sent but invalid is rejected.
func OptionalJWT(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		tokenString, present := bearerToken(c)
		if !present {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidToken)
			return
		}
		if !authenticate(c, authService, tokenString) {
			return
		}
		c.Next()
	}
}

// BearerToken returns the raw token from the Authorization header, or "".
func BearerToken(c *gin.Context) string {
	token, _ := bearerToken(c)
	return token
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}

// authenticate rejects bad tokens with 401. When the revocation list cannot
// be read the request fails with 503 instead of trusting the token.
func authenticate(c *gin.Context, authService service.AuthService, tokenString string) bool {
	claims, err := authService.Authenticate(c.Request.Context(), tokenString)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenRevoked):
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidToken)
		return false
	default:
		logger.FromContext(c.Request.Context()).Error().Err(err).Msg("Token verification failed")
		abortWithError(c, http.StatusServiceUnavailable, dto.ErrCodeServiceUnavailable, i18n.ErrKeyServiceUnavailable)
		return false
	}
	SetSession(c, claims.Session())
	return true
}
