package user

import (
	"context"

	"github.com/hr-compass/internal/domain"
)

// Service answers account lookups for the sign-in screens.
type Service interface {
	Check(ctx context.Context, email string) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

// Check returns the user registered under email. A missing user is reported
// as an error wrapping domain.ErrNotFound.
func (s *service) Check(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, domain.ErrMissingEmail
	}
	return s.repo.GetByEmail(ctx, email)
}
