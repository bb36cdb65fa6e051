package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fleetdesk-api/internal/application/auth"
	"github.com/fleetdesk-api/internal/domain"
	"github.com/fleetdesk-api/internal/pkg/validate"
)

// AuthHandler handles the registration and login flow for a single role.
// The same handler is mounted once per role prefix.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Signup(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.SignupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
			return
		}
		res, err := h.svc.Signup(r.Context(), role, req)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func (h *AuthHandler) SendOTP(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		res, err := h.svc.SendOTP(r.Context(), role, req.Mobile)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *AuthHandler) VerifyOTP(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		res, err := h.svc.VerifyOTP(r.Context(), role, req.Mobile, req.OTP)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *AuthHandler) Login(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		res, err := h.svc.Login(r.Context(), role, req.Mobile, req.Password)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
