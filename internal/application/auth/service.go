package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/observability"
	"github.com/hr-compass/internal/pkg/id"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RedeemResult is what a successful redemption hands back to the transport.
type RedeemResult struct {
	Token   string
	Session domain.Session
	User    *domain.User
}

type Service interface {
	Redeem(ctx context.Context, email, code string, intent domain.Intent) (*RedeemResult, error)
	Resolve(ctx context.Context, sess domain.Session) (*domain.Session, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	MarkVerified(ctx context.Context, email string, at time.Time) (*domain.User, error)
}

type otpStore interface {
	ListActive(ctx context.Context, email string, now time.Time) ([]domain.Otp, error)
	Consume(ctx context.Context, email, otpID string) error
}

type sessionSigner interface {
	Issue(u *domain.User) (string, domain.Session, error)
}

type ServiceDeps struct {
	UserRepo userStore
	OtpRepo  otpStore
	Signer   sessionSigner
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

type service struct {
	users   userStore
	otps    otpStore
	signer  sessionSigner
	metrics *observability.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:   deps.UserRepo,
		otps:    deps.OtpRepo,
		signer:  deps.Signer,
		metrics: deps.Metrics,
		log:     deps.Logger.With(zap.String("service", "auth")),
		now:     time.Now,
	}
}

// Redeem checks code against the active codes for email, consumes the match
// and signs a session for the signed-up or verified user.
func (s *service) Redeem(ctx context.Context, email, code string, intent domain.Intent) (res *RedeemResult, err error) {
	defer func() { s.metrics.ObserveRedeem(intent, err) }()

	if email == "" || code == "" || intent == domain.IntentNone {
		return nil, domain.ErrMissingFields
	}

	now := s.now().UTC()
	if err := s.consume(ctx, email, code, now); err != nil {
		return nil, err
	}

	var u *domain.User
	if intent == domain.IntentSignup {
		u, err = s.signup(ctx, email, now)
	} else {
		u, err = s.login(ctx, email, now)
	}
	if err != nil {
		return nil, err
	}

	token, sess, err := s.signer.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}
	return &RedeemResult{Token: token, Session: sess, User: u}, nil
}

// consume finds the active code matching code and deletes it. When two
// callers race on the same code only the first delete succeeds.
func (s *service) consume(ctx context.Context, email, code string, now time.Time) error {
	active, err := s.otps.ListActive(ctx, email, now)
	if err != nil {
		return fmt.Errorf("list otps: %w", err)
	}
	for _, o := range active {
		if !o.Active(now) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(o.CodeHash), []byte(code)) != nil {
			continue
		}
		err := s.otps.Consume(ctx, email, o.OtpID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidOrExpired
		}
		if err != nil {
			return fmt.Errorf("consume otp: %w", err)
		}
		return nil
	}
	return domain.ErrInvalidOrExpired
}

func (s *service) signup(ctx context.Context, email string, now time.Time) (*domain.User, error) {
	u := &domain.User{
		UserID:    id.NewAt(now),
		Email:     email,
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.users.Create(ctx, u)
	if errors.Is(err, domain.ErrConflict) {
		return nil, domain.ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user signed up", zap.String("user_id", u.UserID))
	return u, nil
}

func (s *service) login(ctx context.Context, email string, now time.Time) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u.Verified {
		return u, nil
	}
	u, err = s.users.MarkVerified(ctx, email, now)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("verify user: %w", err)
	}
	s.log.Info("user verified", zap.String("user_id", u.UserID))
	return u, nil
}

// Resolve refreshes sess from the store so the verified flag is current.
func (s *service) Resolve(ctx context.Context, sess domain.Session) (*domain.Session, error) {
	u, err := s.sessionUser(ctx, sess)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	sess.Email = u.Email
	sess.Verified = u.Verified
	return &sess, nil
}

// sessionUser reads the user by the session's email with a consistent read.
// The user id lookup goes through a secondary index that may lag a fresh
// signup, so it only serves sessions that carry no email.
func (s *service) sessionUser(ctx context.Context, sess domain.Session) (*domain.User, error) {
	if sess.Email == "" {
		return s.users.Get(ctx, sess.UserID)
	}
	u, err := s.users.GetByEmail(ctx, sess.Email)
	if err != nil {
		return nil, err
	}
	if u.UserID != sess.UserID {
		return nil, fmt.Errorf("user %s: %w", sess.UserID, domain.ErrNotFound)
	}
	return u, nil
}
