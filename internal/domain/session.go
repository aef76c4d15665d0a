package domain

import "time"

// Session is the authenticated identity asserted by a signed session token.
// It is assembled once when a code is redeemed (or re-derived from the store
// on a session read) and never carries ad-hoc fields.
type Session struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"is_verified"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires"`
}

// NewSession builds the session record for u.
func NewSession(u *User, issuedAt time.Time, ttl time.Duration) Session {
	return Session{
		UserID:    u.UserID,
		Email:     u.Email,
		Verified:  u.Verified,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}
}
