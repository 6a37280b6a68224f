package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestGroupRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	travel := createGroup(t, db, "travel")
	createGroup(t, db, "books")

	t.Run("GetBySlug", func(t *testing.T) {
		got, err := repo.GetBySlug(ctx, "travel")
		require.NoError(t, err)
		assert.Equal(t, travel.ID, got.ID)

		_, err = repo.GetBySlug(ctx, "nope")
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("List is ordered by title", func(t *testing.T) {
		groups, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "books", groups[0].Slug)
		assert.Equal(t, "travel", groups[1].Slug)
	})

	t.Run("Delete detaches posts instead of removing them", func(t *testing.T) {
		author := createUser(t, db, "alice")
		post := createPost(t, db, author, travel, time.Now())

		require.NoError(t, repo.Delete(ctx, travel.ID))

		_, err := repo.GetBySlug(ctx, "travel")
		assert.True(t, models.IsNotFound(err))

		var got models.Post
		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Nil(t, got.GroupID)
	})
}
