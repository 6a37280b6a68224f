package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestFollowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	reader := createUser(t, db, "reader")
	author := createUser(t, db, "author")

	countPairs := func() int64 {
		var count int64
		db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", reader.ID, author.ID).
			Count(&count)
		return count
	}

	t.Run("Follow creates the pair once", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, reader.ID, author.ID))
		assert.Equal(t, int64(1), countPairs())

		exists, err := repo.Exists(ctx, reader.ID, author.ID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("repeated Follow stays a single row", func(t *testing.T) {
		require.NoError(t, repo.Follow(ctx, reader.ID, author.ID))
		require.NoError(t, repo.Follow(ctx, reader.ID, author.ID))
		assert.Equal(t, int64(1), countPairs())
	})

	t.Run("follow is directional", func(t *testing.T) {
		exists, err := repo.Exists(ctx, author.ID, reader.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Unfollow removes the pair", func(t *testing.T) {
		require.NoError(t, repo.Unfollow(ctx, reader.ID, author.ID))
		assert.Zero(t, countPairs())
	})

	t.Run("Unfollow without a follow is a no-op", func(t *testing.T) {
		require.NoError(t, repo.Unfollow(ctx, reader.ID, author.ID))
		assert.Zero(t, countPairs())
	})
}
