package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestCommentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createUser(t, db, "alice")
	reader := createUser(t, db, "bob")
	post := createPost(t, db, author, nil, time.Now())

	t.Run("Create and GetByID", func(t *testing.T) {
		comment := &models.Comment{Text: "first", PostID: post.ID, AuthorID: reader.ID}
		require.NoError(t, repo.Create(ctx, comment))
		assert.NotZero(t, comment.ID)

		got, err := repo.GetByID(ctx, comment.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Author.Username)
	})

	t.Run("ListByPost is newest first", func(t *testing.T) {
		thread := createPost(t, db, author, nil, time.Now())
		base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		older := &models.Comment{Text: "older", PostID: thread.ID, AuthorID: author.ID, CreatedAt: base}
		newer := &models.Comment{Text: "newer", PostID: thread.ID, AuthorID: reader.ID, CreatedAt: base.Add(time.Minute)}
		require.NoError(t, db.Create(older).Error)
		require.NoError(t, db.Create(newer).Error)

		comments, err := repo.ListByPost(ctx, thread.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, newer.ID, comments[0].ID)
		assert.Equal(t, older.ID, comments[1].ID)
	})

	t.Run("ListByPost on another post is empty", func(t *testing.T) {
		other := createPost(t, db, reader, nil, time.Now())
		comments, err := repo.ListByPost(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})
}
