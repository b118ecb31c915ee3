//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPriceBooksRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := openTestDB(t)
	repo := NewPriceBooksRepository(db)
	user := primitive.NewObjectID()

	t.Run("no active book", func(t *testing.T) {
		book, err := repo.GetActive(ctx, user)
		require.NoError(t, err)
		assert.Nil(t, book)
	})

	v1, err := repo.Create(ctx, user, map[string]float64{"rice": 3.5}, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, v1.Version)

	v2, err := repo.Create(ctx, user, map[string]float64{"rice": 3.5, "milk": 4.2}, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)

	t.Run("latest version is active", func(t *testing.T) {
		active, err := repo.GetActive(ctx, user)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, v2.ID, active.ID)
		assert.InDelta(t, 4.2, active.Prices["milk"], 1e-9)
	})

	t.Run("history newest first", func(t *testing.T) {
		books, err := repo.List(ctx, user, 10)
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, 2, books[0].Version)
		assert.True(t, books[0].Active)
		assert.False(t, books[1].Active)
	})

	t.Run("books are per user", func(t *testing.T) {
		other, err := repo.Create(ctx, primitive.NewObjectID(), map[string]float64{"eggs": 5}, "ravi@example.com")
		require.NoError(t, err)
		assert.Equal(t, 1, other.Version)

		active, err := repo.GetActive(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, v2.ID, active.ID)
	})
}

func TestPriceBooksRepository_Integration_ConcurrentCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := openTestDB(t)
	repo := NewPriceBooksRepository(db)
	user := primitive.NewObjectID()

	const writers = 5
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, user, map[string]float64{"rice": float64(i + 1)}, "asha@example.com")
		}()
	}
	wg.Wait()

	stored := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrPriceBookConflict)
			continue
		}
		stored++
	}
	require.Positive(t, stored)

	books, err := repo.List(ctx, user, 0)
	require.NoError(t, err)
	require.Len(t, books, stored)

	active := 0
	for i, b := range books {
		assert.Equal(t, len(books)-i, b.Version, "versions are dense and distinct")
		if b.Active {
			active++
		}
	}
	assert.Equal(t, 1, active)
	assert.True(t, books[0].Active, "the newest version is the active one")

	current, err := repo.GetActive(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, books[0].ID, current.ID)
}
