package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkwell/internal/models"
)

func TestUserRepositoryLookups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")

	t.Run("GetByID", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("GetByUsername", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repo.GetByUsername(ctx, "nobody")
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("GetByEmail misses quietly", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)

		got, err = repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

// Deleting an account removes everything that hangs off it: the user's
// posts with their comments, comments the user left elsewhere, and follow
// relations in both directions.
func TestUserRepositoryDeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	doomed := createUser(t, db, "doomed")
	bystander := createUser(t, db, "bystander")

	now := time.Now()
	doomedPost := createPost(t, db, doomed, nil, now)
	bystanderPost := createPost(t, db, bystander, nil, now)

	// Comment by the bystander on the doomed user's post goes away with
	// the post; the doomed user's comment elsewhere goes away with the
	// account; the bystander's own thread survives.
	require.NoError(t, db.Create(&models.Comment{Text: "a", PostID: doomedPost.ID, AuthorID: bystander.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{Text: "b", PostID: bystanderPost.ID, AuthorID: doomed.ID}).Error)
	survivor := &models.Comment{Text: "c", PostID: bystanderPost.ID, AuthorID: bystander.ID}
	require.NoError(t, db.Create(survivor).Error)

	require.NoError(t, db.Create(&models.Follow{UserID: doomed.ID, AuthorID: bystander.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{UserID: bystander.ID, AuthorID: doomed.ID}).Error)

	require.NoError(t, repo.Delete(ctx, doomed.ID))

	_, err := repo.GetByID(ctx, doomed.ID)
	assert.True(t, models.IsNotFound(err))

	var posts int64
	db.Model(&models.Post{}).Where("author_id = ?", doomed.ID).Count(&posts)
	assert.Zero(t, posts)

	var comments []models.Comment
	require.NoError(t, db.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, survivor.ID, comments[0].ID)

	var follows int64
	db.Model(&models.Follow{}).
		Where("user_id = ? OR author_id = ?", doomed.ID, doomed.ID).
		Count(&follows)
	assert.Zero(t, follows)

	// The bystander's own content is untouched.
	var bystanderPosts int64
	db.Model(&models.Post{}).Where("author_id = ?", bystander.ID).Count(&bystanderPosts)
	assert.Equal(t, int64(1), bystanderPosts)
}

func TestUserRepositoryCreateDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUser(t, db, "taken")
	err := repo.Create(ctx, &models.User{Username: "taken", Email: "other@example.com", PasswordHash: "x"})
	require.Error(t, err)
	assert.False(t, models.IsNotFound(err))
	assert.NotErrorIs(t, err, gorm.ErrRecordNotFound)
}
