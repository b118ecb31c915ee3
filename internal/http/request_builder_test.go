package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/middleware"
)

func jsonContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	middleware.RequestID()(c)
	return c, w
}

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantBudget    float64
		wantField     string
		wantBindError bool
	}{
		{
			name:       "valid request",
			body:       `{"family_members":[{"type":"child","count":1}],"weekly_budget":300,"food_prices":{"rice":4}}`,
			wantBudget: 300,
		},
		{name: "malformed JSON", body: `{"weekly_budget": invalid}`, wantBindError: true},
		{name: "empty body", body: ``, wantBindError: true},
		{
			name:      "unknown member type",
			body:      `{"family_members":[{"type":"teen","count":1}],"weekly_budget":300}`,
			wantField: "family_members[0].type",
		},
		{
			name:      "unknown food",
			body:      `{"weekly_budget":300,"food_prices":{"saffron":400}}`,
			wantField: "food_prices.saffron",
		},
		{
			name:      "negative price",
			body:      `{"weekly_budget":300,"food_prices":{"milk":-1}}`,
			wantField: "food_prices.milk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := jsonContext(tt.body)

			req, err := decodeRequest[dto.OptimizeRequest](c)

			switch {
			case tt.wantBindError:
				assert.Error(t, err)
				assert.Nil(t, req)
			case tt.wantField != "":
				assert.Nil(t, req)
				var validationErr *dto.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.wantField, validationErr.Field)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantBudget, req.WeeklyBudget)
			}
		})
	}
}

func TestDecodeRequest_BodyTooLarge(t *testing.T) {
	padding := strings.Repeat(" ", maxRequestBody)
	c, w := jsonContext(`{"weekly_budget":` + padding + `300}`)

	_, err := decodeRequest[dto.OptimizeRequest](c)
	require.Error(t, err)

	NewResponseBuilder(c).BadRequest(err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
