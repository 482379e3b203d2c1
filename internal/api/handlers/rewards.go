package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/apperr"
	"github.com/archetypehq/qrtrack/internal/reward"
)

type RewardHandler struct {
	svc *reward.Service
}

func NewRewardHandler(svc *reward.Service) *RewardHandler {
	return &RewardHandler{svc: svc}
}

func (h *RewardHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rewards, err := h.svc.List(r.Context(), ident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rewards)
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req reward.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	rw, err := h.svc.Create(r.Context(), ident, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rw)
}

// Use marks a reward as redeemed. Replays and races both surface as 409.
func (h *RewardHandler) Use(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("invalid reward id"))
		return
	}

	rw, err := h.svc.Use(r.Context(), ident, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rw)
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("invalid reward id"))
		return
	}

	if err := h.svc.Delete(r.Context(), ident, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
