//go:build integration

package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/circuitbreaker"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
	"github.com/guttosm/nutriplan-service/internal/repository"
	"github.com/guttosm/nutriplan-service/internal/service"
)

// setupAccountIntegrationRouter wires the full router with auth and every
// account service over MongoDB.
func setupAccountIntegrationRouter(t *testing.T) *gin.Engine {
	router, _ := setupAccountIntegration(t)
	return router
}

// setupAccountIntegration also returns the user repository so tests can
// grant roles directly.
func setupAccountIntegration(t *testing.T) (*gin.Engine, repository.UserRepositoryInterface) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := integrationDB(t)

	userRepo := repository.NewUserRepository(db.Database)
	tokens := service.NewTokenService(repository.NewTokenRepository(db.Database), service.TokenConfigFrom(config.AuthConfig{
		JWTSecretKey:     "test-secret-key",
		JWTRefreshSecret: "test-refresh-secret-key",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
	}))
	authService := service.NewAuthServiceWithTokenService(userRepo, tokens)

	breaker := func() *circuitbreaker.CircuitBreaker { return circuitbreaker.New(circuitbreaker.DefaultConfig()) }
	logs := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), breaker())
	savedPlans := repository.NewSavedPlansRepositoryWithCircuitBreaker(repository.NewSavedPlansRepository(db), breaker())
	priceBooks := repository.NewPriceBooksRepositoryWithCircuitBreaker(repository.NewPriceBooksRepository(db), breaker())

	savedPlanService := service.NewSavedPlanService(savedPlans)
	priceBookService := service.NewPriceBookService(priceBooks)

	handler := NewHandler(service.NewOptimizer(), nil,
		WithPriceBooks(priceBookService),
		WithSavedPlans(savedPlanService, 0),
	)

	cfg := RouterConfig{
		RateLimit:        100,
		RateWindow:       time.Minute,
		LoggingService:   service.NewLoggingService(logs),
		AuthService:      authService,
		SavedPlanService: savedPlanService,
		PriceBookService: priceBookService,
		ProfileService:   service.NewProfileService(userRepo, ""),
		UserAdminService: service.NewUserAdminService(userRepo, tokens),
	}

	return NewRouter(handler, NewHealthHandler(), cfg), userRepo
}

func registerUser(t *testing.T, router *gin.Engine, email string) dto.LoginResponse {
	t.Helper()
	w := performJSON(router, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:    email,
		Password: "password123",
		FullName: "Test User",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[dto.LoginResponse](t, w)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthHandler_Login_Integration(t *testing.T) {
	t.Parallel()

	t.Run("register then login", func(t *testing.T) {
		router := setupAccountIntegrationRouter(t)
		registerUser(t, router, "test@example.com")

		w := performJSON(router, http.MethodPost, "/api/auth/login", dto.LoginRequest{
			Email:    "Test@Example.com",
			Password: "password123",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeData[dto.LoginResponse](t, w)
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "test@example.com", resp.User.Email)
		assert.Equal(t, []string{model.RoleUser}, resp.User.Roles)
	})

	t.Run("login with invalid credentials", func(t *testing.T) {
		router := setupAccountIntegrationRouter(t)

		w := performJSON(router, http.MethodPost, "/api/auth/login", dto.LoginRequest{
			Email:    "nonexistent@example.com",
			Password: "wrongpassword",
		}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Register_Integration(t *testing.T) {
	t.Parallel()

	t.Run("duplicate email registration", func(t *testing.T) {
		router := setupAccountIntegrationRouter(t)
		registerUser(t, router, "duplicate@example.com")

		w := performJSON(router, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
			Email:    "duplicate@example.com",
			Password: "password123",
		}, nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuthHandler_Refresh_Integration(t *testing.T) {
	t.Parallel()

	t.Run("refresh tokens work once", func(t *testing.T) {
		router := setupAccountIntegrationRouter(t)
		registered := registerUser(t, router, "refreshtest@example.com")
		header := map[string]string{RefreshTokenHeader: registered.RefreshToken}

		w := performJSON(router, http.MethodPost, "/api/auth/refresh", nil, header)
		require.Equal(t, http.StatusOK, w.Code)
		refreshed := decodeData[dto.LoginResponse](t, w)
		assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

		w = performJSON(router, http.MethodPost, "/api/auth/refresh", nil, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "replayed refresh token")

		w = performJSON(router, http.MethodGet, "/api/profile", nil, bearer(refreshed.Token))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("refresh with invalid token", func(t *testing.T) {
		router := setupAccountIntegrationRouter(t)

		w := performJSON(router, http.MethodPost, "/api/auth/refresh", nil,
			map[string]string{RefreshTokenHeader: "invalid-refresh-token"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout_Integration(t *testing.T) {
	t.Parallel()

	router := setupAccountIntegrationRouter(t)
	registered := registerUser(t, router, "logouttest@example.com")

	headers := bearer(registered.Token)
	headers[RefreshTokenHeader] = registered.RefreshToken
	w := performJSON(router, http.MethodPost, "/api/auth/logout", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/api/profile", nil, bearer(registered.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "access token is revoked")

	w = performJSON(router, http.MethodPost, "/api/auth/refresh", nil,
		map[string]string{RefreshTokenHeader: registered.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh token is revoked")
}

func TestAuthHandler_LogoutAll_Integration(t *testing.T) {
	t.Parallel()

	router := setupAccountIntegrationRouter(t)
	registered := registerUser(t, router, "everywhere@example.com")

	w := performJSON(router, http.MethodPost, "/api/auth/login",
		dto.LoginRequest{Email: "everywhere@example.com", Password: "password123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeData[dto.LoginResponse](t, w)

	w = performJSON(router, http.MethodPost, "/api/auth/logout-all", nil, bearer(second.Token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), decodeData[LogoutAllResponse](t, w).Revoked)

	for _, refresh := range []string{registered.RefreshToken, second.RefreshToken} {
		w = performJSON(router, http.MethodPost, "/api/auth/refresh", nil, map[string]string{RefreshTokenHeader: refresh})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestAdminUsers_Integration(t *testing.T) {
	t.Parallel()

	router, users := setupAccountIntegration(t)
	admin := registerUser(t, router, "ops@example.com")
	member := registerUser(t, router, "member@example.com")

	adminID, err := primitive.ObjectIDFromHex(admin.User.ID)
	require.NoError(t, err)
	_, err = users.SetRoles(context.Background(), adminID, []string{model.RoleUser, model.RoleAdmin})
	require.NoError(t, err)

	// Roles are read from the token, so the admin needs a fresh one.
	w := performJSON(router, http.MethodPost, "/api/auth/refresh", nil, map[string]string{RefreshTokenHeader: admin.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := decodeData[dto.LoginResponse](t, w).Token

	w = performJSON(router, http.MethodGet, "/api/admin/users?role=admin", nil, bearer(adminToken))
	require.Equal(t, http.StatusOK, w.Code)
	listed := decodeData[[]dto.AccountView](t, w)
	require.Len(t, listed, 1)
	assert.Equal(t, "ops@example.com", listed[0].Email)

	w = performJSON(router, http.MethodPatch, "/api/admin/users/"+member.User.ID, map[string]any{"active": false}, bearer(adminToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeData[dto.AccountView](t, w).Active)

	w = performJSON(router, http.MethodPost, "/api/auth/refresh", nil, map[string]string{RefreshTokenHeader: member.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "deactivation revokes refresh tokens")

	w = performJSON(router, http.MethodPost, "/api/auth/login",
		dto.LoginRequest{Email: "member@example.com", Password: "password123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performJSON(router, http.MethodPatch, "/api/admin/users/"+admin.User.ID, map[string]any{"roles": []string{"user"}}, bearer(adminToken))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAccountRoutes_Integration(t *testing.T) {
	t.Parallel()

	router := setupAccountIntegrationRouter(t)
	owner := registerUser(t, router, "owner@example.com")
	other := registerUser(t, router, "other@example.com")

	t.Run("price book layers over reference prices", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/api/prices", `{"prices":{"rice":2}}`, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1, decodeData[model.PriceBook](t, w).Version)

		w = performJSON(router, http.MethodPut, "/api/prices", `{"prices":{"milk":3}}`, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code)
		book := decodeData[model.PriceBook](t, w)
		assert.Equal(t, 2, book.Version)
		assert.Equal(t, map[string]float64{"rice": 2, "milk": 3}, book.Prices)

		w = performJSON(router, http.MethodGet, "/api/foods", nil, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code)
		foods := decodeData[[]dto.FoodView](t, w)
		assert.Equal(t, 2.0, foods[0].EffectiveCost)

		w = performJSON(router, http.MethodGet, "/api/prices/history", nil, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decodeData[[]model.PriceBook](t, w), 2)
	})

	var planID string
	t.Run("save and list plans", func(t *testing.T) {
		w := performJSON(router, http.MethodPost, "/api/plans/optimize",
			`{"family_members":[{"type":"adult","count":2}],"weekly_budget":400}`, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code)
		plan := decodeData[model.PlanResult](t, w)

		w = performJSON(router, http.MethodPost, "/api/saved-plans",
			dto.SavePlanRequest{PlanName: "Week 1", Plan: plan}, bearer(owner.Token))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		planID = decodeData[model.SavedPlan](t, w).ID.Hex()

		w = performJSON(router, http.MethodGet, "/api/saved-plans", nil, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code)
		plans := decodeData[[]model.SavedPlan](t, w)
		require.Len(t, plans, 1)
		assert.Equal(t, "Week 1", plans[0].PlanName)
		assert.Len(t, plans[0].Plan.MealPlans, 7)
	})

	t.Run("plans are private to their owner", func(t *testing.T) {
		require.NotEmpty(t, planID)

		w := performJSON(router, http.MethodGet, "/api/saved-plans/"+planID, nil, bearer(other.Token))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = performJSON(router, http.MethodDelete, "/api/saved-plans/"+planID, nil, bearer(other.Token))
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = performJSON(router, http.MethodGet, "/api/saved-plans", nil, bearer(other.Token))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decodeData[[]model.SavedPlan](t, w))
	})

	t.Run("profile round trip", func(t *testing.T) {
		w := performJSON(router, http.MethodPut, "/api/profile",
			`{"full_name":"Owner","family_size":3,"default_budget":450,"currency":"$"}`, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = performJSON(router, http.MethodGet, "/api/profile", nil, bearer(owner.Token))
		require.Equal(t, http.StatusOK, w.Code)
		profile := decodeData[model.Profile](t, w)
		assert.Equal(t, 3, profile.FamilySize)
		assert.Equal(t, "$", profile.Currency)
	})

	t.Run("delete plan", func(t *testing.T) {
		w := performJSON(router, http.MethodDelete, "/api/saved-plans/"+planID, nil, bearer(owner.Token))
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = performJSON(router, http.MethodGet, "/api/saved-plans/"+planID, nil, bearer(owner.Token))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
