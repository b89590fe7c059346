package services

import (
	"context"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type followService struct {
	followRepo ports.FollowRepository
	userRepo   ports.UserRepository
	clock      ports.Clock
}

func NewFollowService(followRepo ports.FollowRepository, userRepo ports.UserRepository, clock ports.Clock) ports.FollowService {
	return &followService{
		followRepo: followRepo,
		userRepo:   userRepo,
		clock:      clock,
	}
}

func (s *followService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return domain.ErrSelfFollow
	}
	if _, err := s.userRepo.GetByID(ctx, followerID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	follow := &domain.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  s.clock.Now(),
	}
	return s.followRepo.Create(ctx, follow)
}

func (s *followService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	return s.followRepo.Delete(ctx, followerID, followedID)
}

func (s *followService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followedID)
}

func (s *followService) FollowerCount(ctx context.Context, userID int64) (int, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.followRepo.CountFollowers(ctx, userID)
}

func (s *followService) FollowingCount(ctx context.Context, userID int64) (int, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return 0, err
	}
	return s.followRepo.CountFollowing(ctx, userID)
}
