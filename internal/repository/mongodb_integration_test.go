//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMongoDB_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := openTestDB(t)
	t.Run("collections are bound", func(t *testing.T) {
		assert.Equal(t, CollectionSavedPlans, db.SavedPlans.Name())
		assert.Equal(t, CollectionPriceBooks, db.PriceBooks.Name())
		assert.Equal(t, CollectionLogs, db.Logs.Name())
		assert.Equal(t, CollectionUsers, db.Users.Name())
		assert.Equal(t, CollectionTokens, db.Tokens.Name())
	})

	t.Run("health check", func(t *testing.T) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		assert.NoError(t, db.HealthCheck(pingCtx))
	})

	t.Run("saved plans index", func(t *testing.T) {
		specs, err := db.SavedPlans.Indexes().ListSpecifications(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(specs))
		for _, s := range specs {
			names = append(names, s.Name)
		}
		assert.Contains(t, names, "user_id_1_created_at_-1")
	})

	t.Run("set logs TTL is repeatable", func(t *testing.T) {
		assert.NoError(t, db.SetLogsTTL(ctx, 30))
		assert.NoError(t, db.SetLogsTTL(ctx, 60))
	})
}

func TestMongoDB_Indexes_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)

	indexNames := func(t *testing.T, coll *mongo.Collection) []string {
		t.Helper()
		specs, err := coll.Indexes().ListSpecifications(ctx)
		require.NoError(t, err)
		names := make([]string, 0, len(specs))
		for _, s := range specs {
			names = append(names, s.Name)
		}
		return names
	}

	assert.Contains(t, indexNames(t, db.Tokens), "kind_1_key_1")
	assert.Contains(t, indexNames(t, db.Tokens), "expires_at_1")
	assert.Contains(t, indexNames(t, db.Users), "email_1")
	assert.Contains(t, indexNames(t, db.PriceBooks), "user_id_1_version_-1")

	t.Run("ensuring twice is harmless", func(t *testing.T) {
		assert.NoError(t, db.ensureIndexes(ctx))
	})
}

func TestIndexConflict(t *testing.T) {
	assert.True(t, indexConflict(mongo.CommandError{Code: 85, Name: "IndexOptionsConflict"}))
	assert.True(t, indexConflict(mongo.CommandError{Code: 86, Name: "IndexKeySpecsConflict"}))
	assert.False(t, indexConflict(mongo.CommandError{Code: 11000}))
	assert.False(t, indexConflict(nil))
}
