package handlers

import (
	"net/http"

	"github.com/archetypehq/qrtrack/internal/analytics"
)

type AnalyticsHandler struct {
	svc *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.svc.Summary(r.Context(), ident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	detailed, err := h.svc.Detailed(r.Context(), ident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailed)
}
