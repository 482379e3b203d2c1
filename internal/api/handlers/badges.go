package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/apperr"
	"github.com/archetypehq/qrtrack/internal/badge"
)

type BadgeHandler struct {
	svc *badge.Service
}

func NewBadgeHandler(svc *badge.Service) *BadgeHandler {
	return &BadgeHandler{svc: svc}
}

func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	badges, err := h.svc.List(r.Context(), ident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, badges)
}

func (h *BadgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req badge.CreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.svc.Create(r.Context(), ident, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BadgeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("invalid badge id"))
		return
	}

	var req badge.UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.svc.Update(r.Context(), ident, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BadgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperr.Validation("invalid badge id"))
		return
	}

	if err := h.svc.Delete(r.Context(), ident, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
