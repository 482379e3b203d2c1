package auth

import (
	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/apperr"
)

// CanAccessBrand is the single ownership decision for reads and writes on a
// row owned by ownerBrandID. It is a pure function of the identity.
func (id Identity) CanAccessBrand(ownerBrandID uuid.UUID) error {
	if id.BrandID == nil {
		return apperr.NoBrand()
	}
	if *id.BrandID != ownerBrandID {
		return apperr.Forbidden()
	}
	return nil
}

// CreationBrand decides which brand a new row belongs to. Brand-level
// callers always get their own brand regardless of what the payload claims;
// only a super admin who is not impersonating may create on behalf of an
// explicit brand.
func (id Identity) CreationBrand(requested *uuid.UUID) (uuid.UUID, error) {
	if id.IsSuperAdmin() && id.BrandID == nil && requested != nil {
		return *requested, nil
	}
	return id.RequireBrand()
}

// RequireAdminLevel gates team management. The check runs on the effective
// role, so an impersonating super admin is held to the same rules as an
// ordinary brand member.
func (id Identity) RequireAdminLevel() error {
	if id.Role != RoleAdmin {
		return apperr.Forbidden()
	}
	return nil
}

// GuardSelfTarget rejects team actions aimed at the actor's own account.
// Nobody removes or demotes themselves, whatever their role.
func (id Identity) GuardSelfTarget(targetID uuid.UUID) error {
	if targetID == id.UserID {
		return apperr.New(apperr.CodeValidation, "cannot target your own account")
	}
	return nil
}
