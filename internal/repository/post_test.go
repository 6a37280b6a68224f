package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"inkwell/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	)
	if err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "d"}
	require.NoError(t, db.Create(group).Error)
	return group
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, publishedAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Text:        fmt.Sprintf("post by %s at %s", author.Username, publishedAt),
		AuthorID:    author.ID,
		PublishedAt: publishedAt,
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestPostRepositoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	author := createUser(t, db, "alice")
	group := createGroup(t, db, "travel")

	t.Run("Create fills id and timestamp", func(t *testing.T) {
		post := &models.Post{Text: "hello", AuthorID: author.ID, GroupID: &group.ID}
		require.NoError(t, repo.Create(ctx, post))
		assert.NotZero(t, post.ID)
		assert.False(t, post.PublishedAt.IsZero())
	})

	t.Run("GetByID preloads author and group", func(t *testing.T) {
		created := createPost(t, db, author, group, time.Now())
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Author.Username)
		require.NotNil(t, got.Group)
		assert.Equal(t, "travel", got.Group.Slug)
	})

	t.Run("GetByID unknown id is not found", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 99999)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("Update persists changed text", func(t *testing.T) {
		post := createPost(t, db, author, nil, time.Now())
		post.Text = "edited"
		require.NoError(t, repo.Update(ctx, post))

		got, err := repo.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Text)
	})

	t.Run("Delete removes the post and its comments", func(t *testing.T) {
		post := createPost(t, db, author, nil, time.Now())
		comment := &models.Comment{Text: "c", PostID: post.ID, AuthorID: author.ID}
		require.NoError(t, db.Create(comment).Error)

		require.NoError(t, repo.Delete(ctx, post.ID))

		_, err := repo.GetByID(ctx, post.ID)
		assert.True(t, models.IsNotFound(err))

		var remaining int64
		db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&remaining)
		assert.Zero(t, remaining)
	})
}

func TestPostRepositoryListings(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	travel := createGroup(t, db, "travel")
	books := createGroup(t, db, "books")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	oldest := createPost(t, db, alice, travel, base)
	middle := createPost(t, db, bob, books, base.Add(time.Hour))
	newest := createPost(t, db, alice, nil, base.Add(2*time.Hour))

	t.Run("ListAll is newest first", func(t *testing.T) {
		posts, err := repo.ListAll(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, newest.ID, posts[0].ID)
		assert.Equal(t, middle.ID, posts[1].ID)
		assert.Equal(t, oldest.ID, posts[2].ID)
	})

	t.Run("ListAll respects limit and offset", func(t *testing.T) {
		posts, err := repo.ListAll(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)

		rest, err := repo.ListAll(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, oldest.ID, rest[0].ID)
	})

	t.Run("identical timestamps break ties by id", func(t *testing.T) {
		ts := base.Add(3 * time.Hour)
		first := createPost(t, db, bob, nil, ts)
		second := createPost(t, db, bob, nil, ts)
		t.Cleanup(func() {
			db.Unscoped().Delete(&models.Post{}, first.ID)
			db.Unscoped().Delete(&models.Post{}, second.ID)
		})

		posts, err := repo.ListAll(ctx, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, second.ID, posts[0].ID)
		assert.Equal(t, first.ID, posts[1].ID)
	})

	t.Run("ListByGroup filters to one group", func(t *testing.T) {
		posts, err := repo.ListByGroup(ctx, travel.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, oldest.ID, posts[0].ID)

		count, err := repo.CountByGroup(ctx, travel.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ListByAuthor filters to one author", func(t *testing.T) {
		posts, err := repo.ListByAuthor(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		for _, p := range posts {
			assert.Equal(t, alice.ID, p.AuthorID)
		}

		count, err := repo.CountByAuthor(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("CountAll matches rows", func(t *testing.T) {
		count, err := repo.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestPostRepositoryFeed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	reader := createUser(t, db, "reader")
	followed := createUser(t, db, "followed")
	stranger := createUser(t, db, "stranger")
	require.NoError(t, db.Create(&models.Follow{UserID: reader.ID, AuthorID: followed.ID}).Error)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	inFeed := createPost(t, db, followed, nil, base.Add(time.Hour))
	createPost(t, db, stranger, nil, base.Add(2*time.Hour))

	t.Run("feed contains only followed authors", func(t *testing.T) {
		posts, err := repo.ListFeed(ctx, reader.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, inFeed.ID, posts[0].ID)

		count, err := repo.CountFeed(ctx, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("feed is empty without follows", func(t *testing.T) {
		posts, err := repo.ListFeed(ctx, stranger.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}
