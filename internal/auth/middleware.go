package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/archetypehq/qrtrack/internal/apperr"
)

// BrandHeader carries the impersonation target. Only the resolver may
// consume it; services never see the raw header.
const BrandHeader = "X-Brand-Id"

type Middleware struct {
	codec *TokenCodec
}

func NewMiddleware(codec *TokenCodec) *Middleware {
	return &Middleware{codec: codec}
}

// Authenticate verifies the bearer token, resolves the effective identity
// (including impersonation) and stores it on the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearerToken(r)
		if raw == "" {
			writeAuthError(w, apperr.Unauthenticated("missing authorization token"))
			return
		}

		claims, err := m.codec.Verify(raw)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		ident := ResolveIdentity(claims, r.Header.Get(BrandHeader))
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

// RequireSuperAdmin guards administrative routes. It honors the preserved
// original role so impersonation does not lock admins out of their console.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		if !ok {
			writeAuthError(w, apperr.Unauthenticated("authentication required"))
			return
		}
		if !ident.IsSuperAdmin() {
			writeAuthError(w, apperr.Forbidden())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code.HTTPStatus())
	json.NewEncoder(w).Encode(map[string]string{"error": e.Message, "code": string(e.Code)})
}
