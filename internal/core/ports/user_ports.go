package ports

import (
	"context"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
)

type UserRepository interface {
	// Create assigns the id. Returns domain.ErrHandleTaken on a duplicate handle.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetByHandle returns (nil, nil) when no user has the handle.
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)
}

type UserService interface {
	Register(ctx context.Context, handle string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
