package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/email-verify-api/internal/application/verification"
	"github.com/email-verify-api/internal/domain"
	"github.com/email-verify-api/internal/pkg/validate"
)

// RequestCountCookie carries the signed resend counter between requests.
const RequestCountCookie = "requestCount"

// CookieConfig controls the resend counter cookie.
type CookieConfig struct {
	Domain string
	MaxAge time.Duration
	Secure bool
}

// EmailHandler handles the email verification endpoints.
type EmailHandler struct {
	svc    verification.Service
	cookie CookieConfig
}

func NewEmailHandler(svc verification.Service, cookie CookieConfig) *EmailHandler {
	return &EmailHandler{svc: svc, cookie: cookie}
}

// Send issues a new code and refreshes the resend counter cookie.
func (h *EmailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req domain.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	token := ""
	if c, err := r.Cookie(RequestCountCookie); err == nil {
		token = c.Value
	}
	next, err := h.svc.IssueAndSend(r.Context(), req.Email, token)
	if err != nil {
		httpError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RequestCountCookie,
		Value:    next,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
}

// Verify confirms a code for a signup (no account may exist yet).
func (h *EmailHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.confirm(w, r, h.svc.VerifyForSignup)
}

// ResetVerify confirms a code for an existing account, e.g. before a password reset.
func (h *EmailHandler) ResetVerify(w http.ResponseWriter, r *http.Request) {
	h.confirm(w, r, h.svc.VerifyForReset)
}

func (h *EmailHandler) confirm(w http.ResponseWriter, r *http.Request, check func(ctx context.Context, email, code string) (bool, error)) {
	var req domain.ConfirmCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	ok, err := check(r.Context(), req.Email, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, VerifyEnvelope{Verified: false, Message: "invalid or expired code"})
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{Verified: true})
}
