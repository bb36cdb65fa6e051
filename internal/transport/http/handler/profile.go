package handler

import (
	"net/http"

	"github.com/fleetdesk-api/internal/application/account"
	"github.com/fleetdesk-api/internal/transport/http/middleware"
)

const maxImageSize = 5 << 20 // 5 MiB

// ProfileHandler serves the authenticated account's own profile.
type ProfileHandler struct {
	svc account.Service
}

func NewProfileHandler(svc account.Service) *ProfileHandler { return &ProfileHandler{svc: svc} }

// ValidateToken returns the account behind a valid bearer token. The auth
// middleware has already verified the token and loaded the account.
func (h *ProfileHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, ident.Account)
}

func (h *ProfileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "image file required")
		return
	}
	defer file.Close()

	key, err := h.svc.UploadProfileImage(r.Context(), ident.Account, header.Filename, file)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

func (h *ProfileHandler) ImageURL(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	url, err := h.svc.ProfileImageURL(r.Context(), ident.Account)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
