//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/domain/model"
)

func TestInitializeDatabase_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("initialize with enabled database", func(t *testing.T) {
		t.Parallel()
		components := InitializeDatabase(integrationDatabaseConfig(t))

		require.NotNil(t, components)
		t.Cleanup(func() {
			components.AsyncLogger.Stop()
			_ = components.DB.Close(ctx)
		})

		assert.NotNil(t, components.DB)
		assert.NotNil(t, components.LoggingService)
		assert.NotNil(t, components.SavedPlansRepo)
		assert.NotNil(t, components.PriceBooksRepo)
		assert.NotNil(t, components.UserRepo)
		assert.NotNil(t, components.TokenRepo)
		assert.NoError(t, components.DB.HealthCheck(ctx))
	})

	t.Run("initialize with disabled database", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, InitializeDatabase(config.DatabaseConfig{Enabled: false}))
	})

	t.Run("unreachable database", func(t *testing.T) {
		t.Parallel()
		cfg := integrationDatabaseConfig(t)
		cfg.URI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200"
		assert.Nil(t, InitializeDatabase(cfg))
	})

	t.Run("repositories go through circuit breakers", func(t *testing.T) {
		t.Parallel()
		cfg := integrationDatabaseConfig(t)
		cfg.CircuitBreakerFailureThreshold = 2
		cfg.CircuitBreakerSuccessThreshold = 1
		cfg.CircuitBreakerTimeout = 100 * time.Millisecond

		components := InitializeDatabase(cfg)
		require.NotNil(t, components)
		t.Cleanup(func() {
			components.AsyncLogger.Stop()
			_ = components.DB.Close(ctx)
		})

		userID := primitive.NewObjectID()
		book, err := components.PriceBooksRepo.Create(ctx, userID, map[string]float64{"rice": 3}, userID.Hex())
		require.NoError(t, err)
		assert.Equal(t, 1, book.Version)

		plans, err := components.SavedPlansRepo.ListByUser(ctx, userID, 10)
		require.NoError(t, err)
		assert.Empty(t, plans)

		require.NoError(t, components.LoggingService.CreateLog(ctx, &model.LogEntry{Level: "info", Message: "db-it", Path: "/api/foods"}))

		for _, stats := range []string{
			components.LogsCircuitBreaker.GetStats().State,
			components.SavedPlansCircuitBreaker.GetStats().State,
			components.PriceBooksCircuitBreaker.GetStats().State,
		} {
			assert.Equal(t, "closed", stats)
		}
	})
}
