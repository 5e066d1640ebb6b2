package service

import (
	"context"
	"time"

	"tryhup-api/internal/domain"
	"tryhup-api/internal/repository"
)

// SocialService gestiona las aristas de seguimiento.
type SocialService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	now     func() time.Time
}

func NewSocialService(users repository.UserRepository, follows repository.FollowRepository) *SocialService {
	return &SocialService{
		users:   users,
		follows: follows,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *SocialService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return domain.ErrSelfFollow
	}
	if _, err := s.users.GetByID(ctx, followeeID); err != nil {
		return err
	}
	return s.follows.Create(ctx, domain.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  s.now(),
	})
}

func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.follows.Delete(ctx, followerID, followeeID)
}

func (s *SocialService) Followers(ctx context.Context, userID string) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return nonNil(s.follows.ListFollowers(ctx, userID))
}

func (s *SocialService) Following(ctx context.Context, userID string) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return nonNil(s.follows.ListFollowing(ctx, userID))
}
