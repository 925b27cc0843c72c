package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/email-verify-api/internal/domain"
)

// httpError maps domain sentinels to status codes. Anything unrecognised is
// logged and answered with an opaque 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTooManyRequests):
		writeError(w, http.StatusTooManyRequests, "too many requests")
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicated email")
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusNotFound, "email not exist")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		if !errors.Is(err, domain.ErrInternal) {
			slog.Error("request failed", "err", err)
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
