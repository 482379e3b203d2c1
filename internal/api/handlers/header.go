package handlers

import (
	"net/http"
	"strconv"

	"github.com/archetypehq/qrtrack/internal/models"
	"github.com/archetypehq/qrtrack/internal/notification"
)

// HeaderHandler feeds the dashboard header widgets: the notification bell
// plus the static conversation and search panels the frontend renders.
type HeaderHandler struct {
	notifier *notification.Dispatcher
}

func NewHeaderHandler(notifier *notification.Dispatcher) *HeaderHandler {
	return &HeaderHandler{notifier: notifier}
}

func (h *HeaderHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.notifier.Recent(r.Context(), ident.UserID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if logs == nil {
		logs = []models.NotificationLog{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": logs,
		// Messaging and global search have no backing source yet; the
		// header renders these as empty states.
		"conversations": []interface{}{},
		"searchResults": []interface{}{},
	})
}
