package http

import (
	"context"
	"time"

	"github.com/hr-compass/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	// Create fails with domain.ErrConflict when the email is already taken.
	Create(ctx context.Context, u *domain.User) error
	MarkVerified(ctx context.Context, email string, at time.Time) (*domain.User, error)
}

// OtpRepository is the minimal interface the router requires from a passcode store.
type OtpRepository interface {
	Replace(ctx context.Context, o *domain.Otp) error
	ListActive(ctx context.Context, email string, now time.Time) ([]domain.Otp, error)
	// Consume fails with domain.ErrNotFound when the code is already gone.
	Consume(ctx context.Context, email, otpID string) error
}

// CodeNotifier delivers issued codes.
type CodeNotifier interface {
	SendCode(ctx context.Context, email, code string, ttl time.Duration) error
}

// Completer is the LLM capability behind the chat relay.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}

// SessionSigner issues and verifies session tokens.
type SessionSigner interface {
	Issue(u *domain.User) (string, domain.Session, error)
	Verify(token string) (*domain.Session, error)
}
