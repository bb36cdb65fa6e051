package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fleetdesk-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, Code: code})
}

// respondError maps domain sentinel errors to an HTTP status and a stable
// error code. Anything unmapped is an unexpected failure: it is logged with
// full detail and the client sees only a generic message.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrAccountExists):
		writeError(w, http.StatusBadRequest, "USER_EXISTS", "an account with this mobile already exists")
	case errors.Is(err, domain.ErrOTPNotRequested):
		writeError(w, http.StatusBadRequest, "OTP_NOT_REQUESTED", "no verification in progress for this mobile")
	case errors.Is(err, domain.ErrInvalidOTP):
		writeError(w, http.StatusBadRequest, "INVALID_OTP", "incorrect verification code")
	case errors.Is(err, domain.ErrOTPExpired):
		writeError(w, http.StatusBadRequest, "OTP_EXPIRED", "verification code expired, request a new one")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid mobile or password")
	case errors.Is(err, domain.ErrUnverifiedAccount):
		writeError(w, http.StatusUnauthorized, "UNVERIFIED_USER", "account is not verified")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many attempts, try again later")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "not allowed")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "something went wrong")
	}
}
