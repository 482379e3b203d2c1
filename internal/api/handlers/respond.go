// Package handlers contains the HTTP layer: decode, validate, call the
// service with the caller's identity, encode. No business rules live here.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/archetypehq/qrtrack/internal/apperr"
	"github.com/archetypehq/qrtrack/internal/auth"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps any error onto the coded JSON error shape. Unclassified
// errors become 500s with their detail kept out of the response body.
func writeError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if e.Code == apperr.CodeInternal {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, e.Code.HTTPStatus(), map[string]string{
		"error": e.Message,
		"code":  string(e.Code),
	})
}

// identity pulls the resolved caller off the request context. The auth
// middleware guarantees it is present on protected routes.
func identity(r *http.Request) (auth.Identity, error) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return auth.Identity{}, apperr.Unauthenticated("authentication required")
	}
	return ident, nil
}

// decodeBody parses and validates a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}
