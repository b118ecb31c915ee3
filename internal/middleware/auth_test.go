package middleware

import (
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]bool{"kitchen-tablet": true, "grocery-bot": true, "revoked-key": false}

	tests := []struct {
		name       string
		keys       map[string]bool
		header     string
		query      string
		wantStatus int
		wantBody   string
		wantKeyID  string
	}{
		{
			name:       "header key",
			keys:       keys,
			header:     "kitchen-tablet",
			wantStatus: http.StatusOK,
			wantKeyID:  fingerprint(sha256.Sum256([]byte("kitchen-tablet"))),
		},
		{
			name:       "query fallback",
			keys:       keys,
			query:      "grocery-bot",
			wantStatus: http.StatusOK,
			wantKeyID:  fingerprint(sha256.Sum256([]byte("grocery-bot"))),
		},
		{
			name:       "header wins over query",
			keys:       keys,
			header:     "grocery-bot",
			query:      "nope",
			wantStatus: http.StatusOK,
			wantKeyID:  fingerprint(sha256.Sum256([]byte("grocery-bot"))),
		},
		{
			name:       "missing key",
			keys:       keys,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "API key is required",
		},
		{
			name:       "unknown key",
			keys:       keys,
			header:     "kitchen-tablet2",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid API key",
		},
		{
			name:       "disabled key",
			keys:       keys,
			header:     "revoked-key",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid API key",
		},
		{name: "nil set disables auth", wantStatus: http.StatusOK},
		{name: "empty set disables auth", keys: map[string]bool{}, wantStatus: http.StatusOK},
		{name: "only disabled keys disables auth", keys: map[string]bool{"old": false}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var keyID string
			router := gin.New()
			router.Use(APIKeyAuth(tt.keys))
			router.GET("/api/foods", func(c *gin.Context) {
				keyID = GetAPIKeyID(c)
				c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/foods", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			if tt.query != "" {
				req.URL.RawQuery = APIKeyQuery + "=" + tt.query
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			assert.Equal(t, tt.wantKeyID, keyID)
		})
	}
}

func TestMatchesAny(t *testing.T) {
	digests := [][sha256.Size]byte{sha256.Sum256([]byte("a")), sha256.Sum256([]byte("b"))}

	assert.True(t, matchesAny(sha256.Sum256([]byte("b")), digests))
	assert.False(t, matchesAny(sha256.Sum256([]byte("c")), digests))
	assert.False(t, matchesAny(sha256.Sum256([]byte("a")), nil))
}

func TestFingerprint(t *testing.T) {
	id := fingerprint(sha256.Sum256([]byte("kitchen-tablet")))

	assert.Len(t, id, 8)
	assert.NotContains(t, id, "kitchen")
}
