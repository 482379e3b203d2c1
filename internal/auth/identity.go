package auth

import (
	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/apperr"
)

// Identity is the request-scoped authorization context. It is derived once
// from the verified token plus the impersonation header and then passed
// explicitly into every service call; nothing below the middleware reads
// ambient request state.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string

	// Role is the effective member level after impersonation downgrade.
	// It is never RoleSuperAdmin.
	Role Role
	// BrandID is the effective tenant scope; nil means no accessible
	// brand-scoped rows.
	BrandID *uuid.UUID
	// OriginalRole preserves RoleSuperAdmin across the downgrade so
	// admin-only routes stay reachable while impersonating. Empty for
	// everyone else.
	OriginalRole Role
}

// ResolveIdentity applies the impersonation rules. A super admin is always
// downgraded to the brand level so every brand filter downstream behaves the
// same for a genuine brand user and an impersonating admin; without a target
// brand in the header the admin simply scopes to nothing. The header is a
// no-op for all other callers.
func ResolveIdentity(claims *Claims, impersonateBrandID string) Identity {
	userID, _ := claims.UserID()
	ident := Identity{
		UserID:  userID,
		Email:   claims.Email,
		Name:    claims.Name,
		Role:    claims.Role,
		BrandID: claims.BrandID,
	}

	if claims.Role == RoleSuperAdmin {
		ident.OriginalRole = RoleSuperAdmin
		ident.BrandID = nil
		if impersonateBrandID != "" {
			if id, err := uuid.Parse(impersonateBrandID); err == nil {
				ident.BrandID = &id
			}
		}
		ident.Role = RoleBrand
	}

	return ident
}

// IsSuperAdmin checks the pre-downgrade role so brand management stays
// reachable while impersonation is active.
func (id Identity) IsSuperAdmin() bool {
	return id.OriginalRole == RoleSuperAdmin || id.Role == RoleSuperAdmin
}

// Impersonating reports whether a super admin is currently scoped to a
// target brand.
func (id Identity) Impersonating() bool {
	return id.OriginalRole == RoleSuperAdmin && id.BrandID != nil
}

// RequireBrand returns the effective brand or a no_brand_association error.
// Used on writes, where "scoped to nothing" is a hard failure.
func (id Identity) RequireBrand() (uuid.UUID, error) {
	if id.BrandID == nil {
		return uuid.Nil, apperr.NoBrand()
	}
	return *id.BrandID, nil
}

// ScopeBrand returns the mandatory list filter. ok=false with a nil error
// means the caller legitimately scopes to zero rows (a super admin who has
// not engaged impersonation); lists must return empty without querying, never
// fall through to all tenants.
func (id Identity) ScopeBrand() (uuid.UUID, bool, error) {
	if id.BrandID != nil {
		return *id.BrandID, true, nil
	}
	if id.OriginalRole == RoleSuperAdmin {
		return uuid.Nil, false, nil
	}
	return uuid.Nil, false, apperr.NoBrand()
}
