package service

import (
	"context"
	"strconv"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/pagination"
	"inkwell/internal/repository"
)

// PostService implements the listing, creation and editing operations for
// posts. Listings are paginated with a fixed page size; the home listing is
// additionally served through a short-lived response cache.
type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	cache     *cache.Cache
	pageSize  int
	indexTTL  time.Duration
}

// NewPostService creates a new post service.
func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	c *cache.Cache,
	pageSize int,
	indexTTL time.Duration,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		cache:     c,
		pageSize:  pageSize,
		indexTTL:  indexTTL,
	}
}

// CreatePostInput carries a validated post submission.
type CreatePostInput struct {
	AuthorID  uint
	Text      string
	GroupID   *uint
	ImagePath string
}

// UpdatePostInput carries a validated post edit.
type UpdatePostInput struct {
	PostID    uint
	UserID    uint
	Text      string
	GroupID   *uint
	ImagePath string
}

// indexPayload is the cached representation of one home-listing page.
type indexPayload struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

// Index returns one page of the home listing. Pages are cached for the
// configured TTL and intentionally NOT invalidated on writes: a post created
// inside the window may be missing from the home page until the entry
// expires. That staleness is an accepted trade.
func (s *PostService) Index(ctx context.Context, rawPage string) ([]*models.Post, pagination.Page, error) {
	// The cache key uses the pre-clamp page number so every distinct query
	// parameter value resolves to its own entry, mirroring a per-URL
	// response cache.
	requested, err := strconv.Atoi(rawPage)
	if err != nil || requested < 1 {
		requested = 1
	}

	var payload indexPayload
	err = s.cache.Aside(ctx, cache.IndexPageKey(requested), &payload, s.indexTTL, func() error {
		total, countErr := s.postRepo.CountAll(ctx)
		if countErr != nil {
			return countErr
		}
		page := pagination.Resolve(rawPage, s.pageSize, total)
		posts, listErr := s.postRepo.ListAll(ctx, page.Limit(), page.Offset())
		if listErr != nil {
			return listErr
		}
		payload = indexPayload{Posts: posts, Total: total}
		return nil
	})
	if err != nil {
		return nil, pagination.Page{}, err
	}

	page := pagination.Resolve(rawPage, s.pageSize, payload.Total)
	return payload.Posts, page, nil
}

// GroupPage returns the group identified by slug and one page of its posts.
func (s *PostService) GroupPage(ctx context.Context, slug, rawPage string) (*models.Group, []*models.Post, pagination.Page, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}

	total, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	page := pagination.Resolve(rawPage, s.pageSize, total)

	posts, err := s.postRepo.ListByGroup(ctx, group.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	return group, posts, page, nil
}

// ProfilePage returns the author identified by username and one page of
// their posts.
func (s *PostService) ProfilePage(ctx context.Context, username, rawPage string) (*models.User, []*models.Post, pagination.Page, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}

	total, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	page := pagination.Resolve(rawPage, s.pageSize, total)

	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, nil, pagination.Page{}, err
	}
	return author, posts, page, nil
}

// FeedPage returns one page of posts authored by users the given user follows.
func (s *PostService) FeedPage(ctx context.Context, userID uint, rawPage string) ([]*models.Post, pagination.Page, error) {
	total, err := s.postRepo.CountFeed(ctx, userID)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	page := pagination.Resolve(rawPage, s.pageSize, total)

	posts, err := s.postRepo.ListFeed(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return nil, pagination.Page{}, err
	}
	return posts, page, nil
}

// GetPost loads a single post with its author and group.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost persists a new post owned by the submitting user.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		Text:      in.Text,
		AuthorID:  in.AuthorID,
		GroupID:   in.GroupID,
		ImagePath: in.ImagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost mutates an existing post. Only the owning author may edit;
// anyone else gets a Forbidden error and the post stays untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	if in.ImagePath != "" {
		post.ImagePath = in.ImagePath
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GroupExists reports whether a group with the given ID exists. Used by the
// post form to reject submissions referencing unknown groups.
func (s *PostService) GroupExists(ctx context.Context, id uint) (bool, error) {
	_, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if models.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Groups lists all groups ordered by title, for the post form's selector.
func (s *PostService) Groups(ctx context.Context) ([]*models.Group, error) {
	return s.groupRepo.List(ctx)
}
