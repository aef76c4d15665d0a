package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrBadRequest    = errors.New("bad request")
	ErrUpstream      = errors.New("upstream unavailable")
	ErrConfiguration = errors.New("configuration error")
)

// Error is a domain failure with a short, caller-safe message. It unwraps to
// one of the sentinel kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Issuance.
var (
	ErrMissingEmail      = newError(ErrBadRequest, "Email is required")
	ErrAlreadyRegistered = newError(ErrConflict, "User already registered")
	ErrNotRegistered     = newError(ErrConflict, "User not found")
	ErrDeliveryFailed    = newError(ErrUpstream, "Failed to send OTP")
	ErrMailNotConfigured = newError(ErrConfiguration, "Mail service is not configured")
)

// Redemption and sessions.
var (
	ErrMissingFields    = newError(ErrBadRequest, "Email, OTP, and action are required")
	ErrInvalidOrExpired = newError(ErrUnauthorized, "Invalid or expired OTP code")
	ErrUserExists       = newError(ErrConflict, "User already exists")
	ErrUserNotFound     = newError(ErrConflict, "User not found")
	ErrNoSession        = newError(ErrUnauthorized, "Unauthorized")
)

// Chat relay.
var (
	ErrInvalidInput        = newError(ErrBadRequest, "No user messages found")
	ErrUpstreamUnavailable = newError(ErrUpstream, "No response from the model")
	ErrLLMNotConfigured    = newError(ErrConfiguration, "LLM API key is missing")
)

// Message returns the caller-safe message carried by err, or fallback when err
// is not a domain error.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Msg
	}
	return fallback
}
