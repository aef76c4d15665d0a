package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/observability"
	"github.com/hr-compass/internal/pkg/id"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	codeMin   = 100000
	codeRange = 900000
)

type Service interface {
	Issue(ctx context.Context, email string, intent domain.Intent) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type otpStore interface {
	Replace(ctx context.Context, o *domain.Otp) error
}

type notifier interface {
	SendCode(ctx context.Context, email, code string, ttl time.Duration) error
}

type ServiceDeps struct {
	UserRepo userStore
	OtpRepo  otpStore
	Notifier notifier
	Metrics  *observability.Metrics
	Logger   *zap.Logger
	TTL      time.Duration
	HashCost int
}

type service struct {
	users    userStore
	otps     otpStore
	notifier notifier
	metrics  *observability.Metrics
	log      *zap.Logger
	ttl      time.Duration
	hashCost int
	now      func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:    deps.UserRepo,
		otps:     deps.OtpRepo,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		log:      deps.Logger.With(zap.String("service", "otp")),
		ttl:      deps.TTL,
		hashCost: deps.HashCost,
		now:      time.Now,
	}
}

// Issue generates a fresh code for email, replaces any earlier code and
// mails it. A failed send still leaves the new code on record.
func (s *service) Issue(ctx context.Context, email string, intent domain.Intent) (err error) {
	defer func() { s.metrics.ObserveIssue(intent, err) }()

	if email == "" {
		return domain.ErrMissingEmail
	}
	if err := s.precheck(ctx, email, intent); err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	now := s.now().UTC()
	o := &domain.Otp{
		OtpID:     id.NewAt(now),
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.otps.Replace(ctx, o); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if err := s.notifier.SendCode(ctx, email, code, s.ttl); err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			s.log.Error("mail service not configured")
			return err
		}
		s.log.Warn("otp delivery failed", zap.String("email", email), zap.Error(err))
		return domain.ErrDeliveryFailed
	}
	return nil
}

func (s *service) precheck(ctx context.Context, email string, intent domain.Intent) error {
	if intent != domain.IntentSignup && intent != domain.IntentVerifyLogin {
		return nil
	}
	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if intent == domain.IntentSignup {
			return domain.ErrAlreadyRegistered
		}
		return nil
	case errors.Is(err, domain.ErrNotFound):
		if intent == domain.IntentVerifyLogin {
			return domain.ErrNotRegistered
		}
		return nil
	default:
		return fmt.Errorf("lookup user: %w", err)
	}
}

// generateCode returns a uniformly random six digit code in 100000-999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeRange))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}
