package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fleetdesk-api/internal/application/vessel"
	"github.com/fleetdesk-api/internal/domain"
	"github.com/fleetdesk-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// VesselHandler handles vessel CRUD for organization accounts.
type VesselHandler struct {
	svc vessel.Service
}

func NewVesselHandler(svc vessel.Service) *VesselHandler { return &VesselHandler{svc: svc} }

func owner(r *http.Request) (string, bool) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return "", false
	}
	return ident.Account.AccountID, true
}

func (h *VesselHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	var req domain.CreateVesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	v, err := h.svc.Create(r.Context(), ownerID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VesselHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	vessels, err := h.svc.List(r.Context(), ownerID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vessels)
}

func (h *VesselHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	v, err := h.svc.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VesselHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	var req domain.UpdateVesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	v, err := h.svc.Update(r.Context(), ownerID, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VesselHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "NO_TOKEN", "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "vessel deleted"})
}
