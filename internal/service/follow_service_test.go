package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

func newFollowService(f *serviceFixture) *FollowService {
	return NewFollowService(
		repository.NewFollowRepository(f.db),
		repository.NewUserRepository(f.db),
	)
}

func TestFollowService(t *testing.T) {
	f := newServiceFixture(t)
	follows := newFollowService(f)
	ctx := context.Background()

	reader := f.createUser(t, "reader")
	author := f.createUser(t, "author")

	t.Run("follow then check", func(t *testing.T) {
		require.NoError(t, follows.Follow(ctx, reader.ID, "author"))

		following, err := follows.IsFollowing(ctx, reader.ID, author.ID)
		require.NoError(t, err)
		assert.True(t, following)
	})

	t.Run("double follow keeps one row", func(t *testing.T) {
		require.NoError(t, follows.Follow(ctx, reader.ID, "author"))

		var count int64
		f.db.Model(&models.Follow{}).Where("user_id = ?", reader.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("self follow is skipped", func(t *testing.T) {
		require.NoError(t, follows.Follow(ctx, reader.ID, "reader"))

		following, err := follows.IsFollowing(ctx, reader.ID, reader.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		err := follows.Follow(ctx, reader.ID, "ghost")
		assert.True(t, models.IsNotFound(err))

		err = follows.Unfollow(ctx, reader.ID, "ghost")
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("unfollow removes the relation", func(t *testing.T) {
		require.NoError(t, follows.Unfollow(ctx, reader.ID, "author"))

		following, err := follows.IsFollowing(ctx, reader.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, following)

		// And again, for the idempotence of it.
		require.NoError(t, follows.Unfollow(ctx, reader.ID, "author"))
	})
}

func TestFeedVisibility(t *testing.T) {
	f := newServiceFixture(t)
	follows := newFollowService(f)
	ctx := context.Background()

	reader := f.createUser(t, "reader")
	author := f.createUser(t, "author")
	outsider := f.createUser(t, "outsider")
	f.createPosts(t, author, 2)

	require.NoError(t, follows.Follow(ctx, reader.ID, "author"))

	posts, page, err := f.posts.FeedPage(ctx, reader.ID, "")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, int64(2), page.TotalItems)

	// The outsider follows nobody and sees nothing.
	posts, page, err = f.posts.FeedPage(ctx, outsider.ID, "")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), page.TotalItems)
}
