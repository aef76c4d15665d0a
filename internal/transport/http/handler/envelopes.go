package handler

import (
	"encoding/json"
	"net/http"

	"github.com/hr-compass/internal/domain"
)

const maxBodyBytes = 1 << 20

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CheckUserEnvelope answers check-user.
type CheckUserEnvelope struct {
	Exists   bool `json:"exists"`
	Verified bool `json:"verified"`
}

// RedeemEnvelope wraps a successful code redemption.
type RedeemEnvelope struct {
	Message  string          `json:"message"`
	Token    string          `json:"token"`
	Session  *domain.Session `json:"session"`
	Redirect string          `json:"redirect"`
}

// SessionEnvelope wraps current-session responses.
type SessionEnvelope struct {
	Session *domain.Session `json:"session"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
