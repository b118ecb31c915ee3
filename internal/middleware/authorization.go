package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/logger"
)

// RequireRole admits sessions holding any of roles. Anonymous callers get
// 401 and signed-in callers without the role 403. It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		switch {
		case session.Anonymous():
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyUnauthorized)
		case !slices.ContainsFunc(roles, session.HasRole):
			logAccessDenied(c, roles)
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, i18n.ErrKeyForbidden)
		default:
			c.Next()
		}
	}
}

func logAccessDenied(c *gin.Context, roles []string) {
	session := GetSession(c)
	logger.FromContext(c.Request.Context()).Warn().
		Str("user_id", session.UserID.Hex()).
		Strs("required_roles", roles).
		Strs("roles", session.Roles).
		Str("path", c.FullPath()).
		Msg("Access denied")
}
