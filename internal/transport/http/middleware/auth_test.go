package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hr-compass/internal/domain"
	jwtinfra "github.com/hr-compass/internal/infrastructure/jwt"
	"github.com/hr-compass/internal/pkg/cookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	p, err := jwtinfra.NewProvider("test-secret", time.Hour)
	require.NoError(t, err)
	return p
}

var testCookies = cookie.NewManager("hrcompass.session-token", false, time.Hour)

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuth_MissingToken(t *testing.T) {
	p := newTestProvider(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	rr := httptest.NewRecorder()
	Auth(p, testCookies)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rr.Body.String())
}

func TestAuth_BadToken(t *testing.T) {
	p := newTestProvider(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(p, testCookies)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_TokenFromOtherSecret(t *testing.T) {
	p := newTestProvider(t)
	other, err := jwtinfra.NewProvider("other-secret", time.Hour)
	require.NoError(t, err)
	token, _, err := other.Issue(&domain.User{UserID: "u1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	Auth(p, testCookies)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_BearerToken_InjectsSession(t *testing.T) {
	p := newTestProvider(t)
	token, _, err := p.Issue(&domain.User{UserID: "u1", Email: "a@b.com", Verified: true})
	require.NoError(t, err)

	var got *domain.Session
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	Auth(p, testCookies)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.Verified)
}

func TestAuth_CookieToken(t *testing.T) {
	p := newTestProvider(t)
	token, _, err := p.Issue(&domain.User{UserID: "u2"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	req.AddCookie(&http.Cookie{Name: testCookies.Name, Value: token})
	rr := httptest.NewRecorder()
	Auth(p, testCookies)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := SessionFromContext(req.Context())
	assert.False(t, ok)
}
