package auth

import (
	"testing"

	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/apperr"
)

func brandIdent(brandID uuid.UUID, role Role) Identity {
	return Identity{UserID: uuid.New(), Role: role, BrandID: &brandID}
}

func TestCanAccessBrand(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	ident := brandIdent(own, RoleBrand)
	if err := ident.CanAccessBrand(own); err != nil {
		t.Errorf("own brand: %v", err)
	}
	if err := ident.CanAccessBrand(other); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Errorf("other brand: expected forbidden, got %v", err)
	}

	noBrand := Identity{UserID: uuid.New(), Role: RoleBrand}
	if err := noBrand.CanAccessBrand(own); !apperr.IsCode(err, apperr.CodeNoBrand) {
		t.Errorf("no brand: expected no_brand_association, got %v", err)
	}
}

func TestScopeBrand(t *testing.T) {
	own := uuid.New()

	got, ok, err := brandIdent(own, RoleBrand).ScopeBrand()
	if err != nil || !ok || got != own {
		t.Errorf("brand user: got (%s, %v, %v), want (%s, true, nil)", got, ok, err, own)
	}

	// A brand user without a brand is a hard failure.
	_, _, err = Identity{UserID: uuid.New(), Role: RoleBrand}.ScopeBrand()
	if !apperr.IsCode(err, apperr.CodeNoBrand) {
		t.Errorf("unaffiliated brand user: expected no_brand_association, got %v", err)
	}

	// A super admin who has not picked a target scopes to zero rows.
	sa := Identity{UserID: uuid.New(), Role: RoleBrand, OriginalRole: RoleSuperAdmin}
	_, ok, err = sa.ScopeBrand()
	if err != nil {
		t.Errorf("super admin: unexpected error %v", err)
	}
	if ok {
		t.Error("super admin without target must scope to nothing")
	}
}

func TestCreationBrand(t *testing.T) {
	own := uuid.New()
	requested := uuid.New()

	// A brand user's payload brand id is ignored.
	got, err := brandIdent(own, RoleBrand).CreationBrand(&requested)
	if err != nil || got != own {
		t.Errorf("brand user: got (%s, %v), want (%s, nil)", got, err, own)
	}

	// A non-impersonating super admin may create on behalf of a brand.
	sa := Identity{UserID: uuid.New(), Role: RoleBrand, OriginalRole: RoleSuperAdmin}
	got, err = sa.CreationBrand(&requested)
	if err != nil || got != requested {
		t.Errorf("super admin: got (%s, %v), want (%s, nil)", got, err, requested)
	}

	// Without an explicit target there is nothing to attach the row to.
	if _, err := sa.CreationBrand(nil); !apperr.IsCode(err, apperr.CodeNoBrand) {
		t.Errorf("super admin, no target: expected no_brand_association, got %v", err)
	}

	// An impersonating super admin creates inside the impersonated brand.
	impersonating := Identity{UserID: uuid.New(), Role: RoleBrand, OriginalRole: RoleSuperAdmin, BrandID: &own}
	got, err = impersonating.CreationBrand(&requested)
	if err != nil || got != own {
		t.Errorf("impersonating: got (%s, %v), want (%s, nil)", got, err, own)
	}
}

func TestRequireAdminLevel(t *testing.T) {
	if err := brandIdent(uuid.New(), RoleAdmin).RequireAdminLevel(); err != nil {
		t.Errorf("admin: %v", err)
	}
	if err := brandIdent(uuid.New(), RoleBrand).RequireAdminLevel(); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Errorf("brand member: expected forbidden, got %v", err)
	}

	// Impersonation downgrades to the brand level, which is not enough.
	b := uuid.New()
	impersonating := Identity{UserID: uuid.New(), Role: RoleBrand, OriginalRole: RoleSuperAdmin, BrandID: &b}
	if err := impersonating.RequireAdminLevel(); !apperr.IsCode(err, apperr.CodeForbidden) {
		t.Errorf("impersonating super admin: expected forbidden, got %v", err)
	}
}

func TestGuardSelfTarget(t *testing.T) {
	ident := brandIdent(uuid.New(), RoleAdmin)

	if err := ident.GuardSelfTarget(uuid.New()); err != nil {
		t.Errorf("other target: %v", err)
	}
	if err := ident.GuardSelfTarget(ident.UserID); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Errorf("self target: expected validation error, got %v", err)
	}
}
