package handlers

import (
	"net/http"

	"github.com/archetypehq/qrtrack/internal/auth"
	"github.com/archetypehq/qrtrack/internal/user"
)

type AuthHandler struct {
	users *user.Service
	codec *auth.TokenCodec
}

func NewAuthHandler(users *user.Service, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{users: users, codec: codec}
}

// SocialLogin syncs an OAuth profile and hands back a signed token carrying
// the account's role and brand scope.
func (h *AuthHandler) SocialLogin(w http.ResponseWriter, r *http.Request) {
	var req user.SocialProfile
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.users.UpsertSocial(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.codec.Issue(u.ID, u.Email, u.Name, auth.ParseRole(u.Role), u.BrandID, auth.LoginTokenTTL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}
