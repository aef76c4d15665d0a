package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/pkg/cookie"
)

type contextKey string

const SessionKey contextKey = "session"

type sessionVerifier interface {
	Verify(token string) (*domain.Session, error)
}

// Auth rejects requests without a valid session token. The token is read
// from the session cookie, falling back to an Authorization: Bearer header.
func Auth(verifier sessionVerifier, cookies *cookie.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.Read(r)
			if token == "" {
				token = bearerToken(r)
			}
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, domain.ErrNoSession.Msg)
				return
			}
			sess, err := verifier.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, domain.ErrNoSession.Msg)
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session placed on the context by Auth.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	s, ok := ctx.Value(SessionKey).(*domain.Session)
	return s, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
