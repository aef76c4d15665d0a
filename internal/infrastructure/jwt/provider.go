package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hr-compass/internal/domain"
)

const issuer = "hr-compass"

// Claims holds the JWT payload fields. Subject is the user id.
type Claims struct {
	Email    string `json:"email"`
	Verified bool   `json:"is_verified"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens.
type Provider struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewProvider(secret string, expiry time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("session secret is not set")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("invalid session expiry %s", expiry)
	}
	return &Provider{secret: []byte(secret), expiry: expiry, now: time.Now}, nil
}

// Expiry is the lifetime of issued tokens.
func (p *Provider) Expiry() time.Duration { return p.expiry }

// Issue signs a session for u and returns the token with the typed session record.
func (p *Provider) Issue(u *domain.User) (string, domain.Session, error) {
	sess := domain.NewSession(u, p.now().UTC().Truncate(time.Second), p.expiry)
	claims := Claims{
		Email:    sess.Email,
		Verified: sess.Verified,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, sess, nil
}

// Verify parses tokenStr and returns the session it asserts.
func (p *Provider) Verify(tokenStr string) (*domain.Session, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}
	sess := &domain.Session{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Verified: claims.Verified,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}
