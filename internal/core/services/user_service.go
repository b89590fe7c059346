package services

import (
	"context"
	"strings"

	"github.com/vncsmyrnk/pollfeed/internal/core/domain"
	"github.com/vncsmyrnk/pollfeed/internal/core/ports"
)

type userService struct {
	repo  ports.UserRepository
	clock ports.Clock
}

func NewUserService(repo ports.UserRepository, clock ports.Clock) ports.UserService {
	return &userService{
		repo:  repo,
		clock: clock,
	}
}

func (s *userService) Register(ctx context.Context, handle string) (*domain.User, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, domain.ErrEmptyHandle
	}

	user := &domain.User{
		Handle:    handle,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}
