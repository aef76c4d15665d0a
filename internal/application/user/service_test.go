package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/hr-compass/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCheck_Found(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "a@b.com").Return(&domain.User{Email: "a@b.com", Verified: true}, nil)

	u, err := svc.Check(ctx, "a@b.com")
	require.NoError(t, err)
	assert.True(t, u.Verified)
}

func TestCheck_NotFound(t *testing.T) {
	repo := &mockUserStore{}
	svc := NewService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, fmt.Errorf("user not found: %w", domain.ErrNotFound))

	_, err := svc.Check(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheck_MissingEmail(t *testing.T) {
	repo := &mockUserStore{}
	_, err := NewService(repo).Check(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrMissingEmail)
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}
