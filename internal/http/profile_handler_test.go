package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/mocks"
	"github.com/guttosm/nutriplan-service/internal/service"
)

func TestProfileHandler_Get(t *testing.T) {
	session := testSession()

	tests := []struct {
		name             string
		user             *model.User
		err              error
		expectedStatus   int
		expectedCurrency string
	}{
		{
			name:             "stored currency",
			user:             &model.User{ID: session.UserID, Profile: model.Profile{FullName: "Asha", FamilySize: 4, Currency: "$"}},
			expectedStatus:   http.StatusOK,
			expectedCurrency: "$",
		},
		{
			name:             "default currency",
			user:             &model.User{ID: session.UserID, Profile: model.Profile{FamilySize: 2}},
			expectedStatus:   http.StatusOK,
			expectedCurrency: "Rs",
		},
		{
			name:           "user deleted",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "repository failure",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mocks.MockUserRepositoryInterface)
			if tt.user != nil {
				users.On("FindByIDMinimal", mock.Anything, session.UserID).Return(tt.user, nil)
			} else {
				users.On("FindByIDMinimal", mock.Anything, session.UserID).Return(nil, tt.err)
			}

			h := NewProfileHandler(service.NewProfileService(users, "Rs"))
			router := testRouter(withSession(session))
			router.GET("/api/profile", h.Get)

			w := performJSON(router, http.MethodGet, "/api/profile", nil, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedCurrency, decodeData[model.Profile](t, w).Currency)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestProfileHandler_Update(t *testing.T) {
	session := testSession()

	t.Run("stores trimmed profile", func(t *testing.T) {
		want := model.Profile{FullName: "Asha Verma", FamilySize: 4, DefaultBudget: 650, Currency: "₹"}
		users := new(mocks.MockUserRepositoryInterface)
		users.On("UpdateProfile", mock.Anything, session.UserID, want).
			Return(&model.User{ID: session.UserID, Profile: want}, nil)

		h := NewProfileHandler(service.NewProfileService(users, ""))
		router := testRouter(withSession(session))
		router.PUT("/api/profile", h.Update)

		w := performJSON(router, http.MethodPut, "/api/profile",
			`{"full_name":"  Asha Verma ","family_size":4,"default_budget":650,"currency":"₹"}`, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, decodeData[model.Profile](t, w))
		users.AssertExpectations(t)
	})

	invalid := []struct {
		name  string
		body  string
		field string
	}{
		{"negative family size", `{"family_size":-1}`, "family_size"},
		{"negative budget", `{"default_budget":-10}`, "default_budget"},
		{"long currency", `{"currency":"DOUBLOONS"}`, "currency"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mocks.MockUserRepositoryInterface)
			h := NewProfileHandler(service.NewProfileService(users, ""))
			router := testRouter(withSession(session))
			router.PUT("/api/profile", h.Update)

			w := performJSON(router, http.MethodPut, "/api/profile", tt.body, nil)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, "profile: values out of range", resp.Message)
			assert.Contains(t, resp.Details, tt.field)
			users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
