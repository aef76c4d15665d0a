package jwtinfra

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hr-compass/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider("test-secret", time.Hour)
	require.NoError(t, err)
	return p
}

func TestNewProvider_RequiresSecret(t *testing.T) {
	_, err := NewProvider("", time.Hour)
	assert.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	p := newTestProvider(t)
	u := &domain.User{UserID: "u1", Email: "a@b.com", Verified: true}

	token, sess, err := p.Issue(u)
	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.IssuedAt))

	got, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "a@b.com", got.Email)
	assert.True(t, got.Verified)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))
}

func TestVerify_WrongSecret(t *testing.T) {
	p := newTestProvider(t)
	other, err := NewProvider("other-secret", time.Hour)
	require.NoError(t, err)

	token, _, err := other.Issue(&domain.User{UserID: "u1"})
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	p := newTestProvider(t)
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := p.Issue(&domain.User{UserID: "u1"})
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	p := newTestProvider(t)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Verify(token)
	assert.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	p := newTestProvider(t)
	_, err := p.Verify("not-a-real-token")
	assert.Error(t, err)
}
