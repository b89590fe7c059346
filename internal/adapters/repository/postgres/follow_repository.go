package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type followRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) ports.FollowRepository {
	return &followRepository{
		db: db,
	}
}

func (r *followRepository) Create(ctx context.Context, follow *domain.Follow) error {
	query := `
		INSERT INTO follows (follower_id, followed_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, follow.FollowerID, follow.FollowedID, follow.CreatedAt).Scan(&follow.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyFollowing
		}
		if violatedConstraint(err) != "" {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`,
		followerID, followedID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFollowing
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	query := `SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, followerID, followedID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return true, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE followed_id = $1`, userID)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID)
}

func (r *followRepository) count(ctx context.Context, query string, userID int64) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count follows: %w", err)
	}
	return count, nil
}
