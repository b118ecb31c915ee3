package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/logger"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter fallback for clients that cannot set headers.
	APIKeyQuery = "api_key"

	apiKeyIDContextKey = "api_key_id"
)

// APIKeyAuth rejects requests without one of validKeys. Keys are compared
// as SHA-256 digests in constant time. An empty set disables the check.
//
// The accepted key is identified in logs and the context by a short
// fingerprint, never by its value.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	digests := make([][sha256.Size]byte, 0, len(validKeys))
	for key, enabled := range validKeys {
		if enabled {
			digests = append(digests, sha256.Sum256([]byte(key)))
		}
	}

	return func(c *gin.Context) {
		if len(digests) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}
		if key == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyAPIKeyRequired)
			return
		}

		presented := sha256.Sum256([]byte(key))
		if !matchesAny(presented, digests) {
			logger.FromContext(c.Request.Context()).Warn().
				Str("api_key_id", fingerprint(presented)).
				Msg("Rejected API key")
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidAPIKey)
			return
		}

		id := fingerprint(presented)
		c.Set(apiKeyIDContextKey, id)
		l := logger.FromContext(c.Request.Context()).With().Str("api_key_id", id).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()
	}
}

// matchesAny visits every digest so the time taken does not reveal which key matched.
func matchesAny(presented [sha256.Size]byte, digests [][sha256.Size]byte) bool {
	found := 0
	for i := range digests {
		found |= subtle.ConstantTimeCompare(presented[:], digests[i][:])
	}
	return found == 1
}

func fingerprint(digest [sha256.Size]byte) string {
	return hex.EncodeToString(digest[:4])
}

// GetAPIKeyID returns the fingerprint of the key that authenticated the request.
func GetAPIKeyID(c *gin.Context) string {
	return c.GetString(apiKeyIDContextKey)
}
