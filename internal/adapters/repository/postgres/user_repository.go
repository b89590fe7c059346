package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (handle, created_at)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, user.Handle, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrHandleTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, handle, created_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Handle, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	query := `
		SELECT id, handle, created_at
		FROM users
		WHERE handle = $1
	`
	var user domain.User
	err := r.db.QueryRowContext(ctx, query, handle).Scan(&user.ID, &user.Handle, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by handle: %w", err)
	}
	return &user, nil
}
