package handler

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/hr-compass/internal/application/auth"
	"github.com/hr-compass/internal/application/otp"
	"github.com/hr-compass/internal/application/user"
	"github.com/hr-compass/internal/domain"
	"github.com/hr-compass/internal/pkg/cookie"
	"github.com/hr-compass/internal/pkg/validate"
	"github.com/hr-compass/internal/transport/http/middleware"
	"go.uber.org/zap"
)

// AuthHandler serves the email/OTP sign-in endpoints.
type AuthHandler struct {
	users   user.Service
	otps    otp.Service
	auth    auth.Service
	cookies *cookie.Manager
	log     *zap.Logger
}

func NewAuthHandler(users user.Service, otps otp.Service, authSvc auth.Service, cookies *cookie.Manager, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, otps: otps, auth: authSvc, cookies: cookies, log: log}
}

func (h *AuthHandler) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	u, err := h.users.Check(r.Context(), req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckUserEnvelope{Exists: true, Verified: u.Verified})
}

func (h *AuthHandler) IssueOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.IssueOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	if err := h.otps.Issue(r.Context(), req.Email, domain.Intent(req.Action)); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
}

// RedeemOTP exchanges an emailed code for a session. JSON callers get the
// token in the body; form posts are redirected to their callback URL.
func (h *AuthHandler) RedeemOTP(w http.ResponseWriter, r *http.Request) {
	req, isForm, err := h.readRedeem(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.auth.Redeem(r.Context(), req.Email, req.OTP, domain.Intent(req.Action))
	if err != nil {
		// Account-state failures are sign-in failures on this endpoint.
		if errors.Is(err, domain.ErrConflict) {
			writeError(w, http.StatusUnauthorized, domain.Message(err, "Unauthorized"))
			return
		}
		respondError(w, r, h.log, err)
		return
	}

	h.cookies.Set(w, res.Token)
	redirect := safeRedirect(req.CallbackURL)
	if isForm {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, RedeemEnvelope{
		Message:  "Signed in",
		Token:    res.Token,
		Session:  &res.Session,
		Redirect: redirect,
	})
}

func (h *AuthHandler) readRedeem(w http.ResponseWriter, r *http.Request) (domain.RedeemOTPRequest, bool, error) {
	var req domain.RedeemOTPRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return req, true, err
		}
		req.Email = r.PostForm.Get("email")
		req.OTP = r.PostForm.Get("otp")
		req.Action = r.PostForm.Get("action")
		req.CallbackURL = r.PostForm.Get("callback_url")
		if req.CallbackURL == "" {
			req.CallbackURL = r.PostForm.Get("callbackUrl")
		}
		return req, true, nil
	}
	err := decodeJSON(w, r, &req)
	return req, false, err
}

// Session returns the caller's session with the verified flag read fresh
// from the store.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		respondError(w, r, h.log, domain.ErrNoSession)
		return
	}
	fresh, err := h.auth.Resolve(r.Context(), *sess)
	if errors.Is(err, domain.ErrNoSession) {
		h.cookies.Clear(w)
	}
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{Session: fresh})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, _ *http.Request) {
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Signed out"})
}

// safeRedirect only allows same-site relative paths.
func safeRedirect(raw string) string {
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	// Browsers drop tabs and newlines and read backslashes as slashes, so
	// "/\t/host" or "/\\host" would turn into a protocol-relative URL.
	for _, c := range raw {
		if c < 0x20 || c == 0x7f || c == '\\' {
			return "/"
		}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}
