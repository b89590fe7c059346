package ports

import (
	"context"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type FollowRepository interface {
	// Create inserts the edge; domain.ErrAlreadyFollowing when it exists.
	Create(ctx context.Context, follow *domain.Follow) error
	// Delete removes the edge; domain.ErrNotFollowing when absent.
	Delete(ctx context.Context, followerID, followedID int64) error
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	CountFollowers(ctx context.Context, userID int64) (int, error)
	CountFollowing(ctx context.Context, userID int64) (int, error)
}

type FollowService interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
	FollowerCount(ctx context.Context, userID int64) (int, error)
	FollowingCount(ctx context.Context, userID int64) (int, error)
}
