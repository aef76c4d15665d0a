package cookie

import (
	"net/http"
	"time"
)

// Manager sets, reads and clears the session cookie.
type Manager struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func NewManager(name string, secure bool, maxAge time.Duration) *Manager {
	return &Manager{Name: name, Secure: secure, MaxAge: maxAge}
}

func (m *Manager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.MaxAge.Seconds()),
	})
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Read returns the session token from the request, or "" when absent.
func (m *Manager) Read(r *http.Request) string {
	c, err := r.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return c.Value
}
