package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/middleware"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// performJSON sends body as JSON (raw when it is a string) and records the response.
func performJSON(router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeData unmarshals the data field of a success envelope into T.
func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	var out T
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	return out
}

// mustRawData returns the undecoded data field of a success envelope.
func mustRawData(t *testing.T, w *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func testSession(roles ...string) model.Session {
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}
	return model.Session{UserID: primitive.NewObjectID(), Email: "asha@example.com", Roles: roles}
}

// withSession stands in for the JWT middleware.
func withSession(session model.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetSession(c, session)
		c.Next()
	}
}

func testRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler())
	router.Use(handlers...)
	return router
}

func samplePlan() model.PlanResult {
	return service.NewOptimizer().Optimize(model.PlanInput{
		FamilyMembers: []model.FamilyMember{{Type: model.MemberAdult, Count: 2}, {Type: model.MemberChild, Count: 1}},
		WeeklyBudget:  500,
		Currency:      "₹",
	})
}
