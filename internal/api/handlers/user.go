package handlers

import (
	"net/http"

	"github.com/archetypehq/qrtrack/internal/auth"
	"github.com/archetypehq/qrtrack/internal/notification"
	"github.com/archetypehq/qrtrack/internal/user"
)

type UserHandler struct {
	users    *user.Service
	notifier *notification.Dispatcher
	codec    *auth.TokenCodec
}

func NewUserHandler(users *user.Service, notifier *notification.Dispatcher, codec *auth.TokenCodec) *UserHandler {
	return &UserHandler{users: users, notifier: notifier, codec: codec}
}

// CreateBrand founds a brand for the caller and reissues their token so the
// new scope is usable without logging in again.
func (h *UserHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req user.CreateBrandRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	b, err := h.users.CreateOwnBrand(r.Context(), ident, req)
	if err != nil {
		writeError(w, err)
		return
	}

	// The reissued token keeps the caller's stored role, not the downgraded
	// effective one.
	role := ident.Role
	if ident.OriginalRole != "" {
		role = ident.OriginalRole
	}
	token, err := h.codec.Issue(ident.UserID, ident.Email, ident.Name, role, &b.ID, auth.LoginTokenTTL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"brand": b,
		"token": token,
	})
}

func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	prefs, err := h.notifier.GetPreferences(r.Context(), ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ident, err := identity(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var prefs notification.Preferences
	if err := decodeBody(r, &prefs); err != nil {
		writeError(w, err)
		return
	}

	if err := h.notifier.UpdatePreferences(r.Context(), ident.UserID, prefs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
