package service

import (
	"context"

	"inkwell/internal/repository"
)

// FollowService implements the follow/unfollow operations. Targets are
// addressed by username; an unknown username surfaces as a NotFound error
// from the user repository for both directions.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService creates a new follow service.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow subscribes user to the author named by username. Self-follows are
// silently skipped, and re-following is a no-op: the follow set's membership
// is unchanged either way.
func (s *FollowService) Follow(ctx context.Context, userID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == userID {
		return nil
	}
	return s.followRepo.Follow(ctx, userID, author.ID)
}

// Unfollow removes the pair if present. Unfollowing a non-followed author
// is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, username string) error {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.followRepo.Unfollow(ctx, userID, author.ID)
}

// IsFollowing reports whether user follows author.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.followRepo.Exists(ctx, userID, authorID)
}
