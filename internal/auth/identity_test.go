package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func claimsFor(userID uuid.UUID, role Role, brandID *uuid.UUID) *Claims {
	return &Claims{
		Email:   "user@example.com",
		Name:    "User",
		Role:    role,
		BrandID: brandID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID.String(),
		},
	}
}

func TestResolveIdentityBrandUser(t *testing.T) {
	userID := uuid.New()
	brandID := uuid.New()

	ident := ResolveIdentity(claimsFor(userID, RoleBrand, &brandID), "")

	if ident.Role != RoleBrand {
		t.Errorf("role = %q, want %q", ident.Role, RoleBrand)
	}
	if ident.BrandID == nil || *ident.BrandID != brandID {
		t.Errorf("brand id = %v, want %s", ident.BrandID, brandID)
	}
	if ident.IsSuperAdmin() {
		t.Error("brand user must not be super admin")
	}
}

func TestResolveIdentityHeaderIgnoredForBrandUser(t *testing.T) {
	ownBrand := uuid.New()
	otherBrand := uuid.New()

	ident := ResolveIdentity(claimsFor(uuid.New(), RoleBrand, &ownBrand), otherBrand.String())

	if ident.BrandID == nil || *ident.BrandID != ownBrand {
		t.Fatalf("brand id = %v, want own brand %s", ident.BrandID, ownBrand)
	}
}

func TestResolveIdentitySuperAdminWithoutHeader(t *testing.T) {
	ident := ResolveIdentity(claimsFor(uuid.New(), RoleSuperAdmin, nil), "")

	if ident.Role != RoleBrand {
		t.Errorf("effective role = %q, want downgraded %q", ident.Role, RoleBrand)
	}
	if ident.BrandID != nil {
		t.Errorf("brand id = %v, want nil", ident.BrandID)
	}
	if !ident.IsSuperAdmin() {
		t.Error("original role must survive the downgrade")
	}
	if ident.Impersonating() {
		t.Error("no header means no impersonation")
	}
}

func TestResolveIdentitySuperAdminImpersonating(t *testing.T) {
	target := uuid.New()

	ident := ResolveIdentity(claimsFor(uuid.New(), RoleSuperAdmin, nil), target.String())

	if ident.Role != RoleBrand {
		t.Errorf("effective role = %q, want %q", ident.Role, RoleBrand)
	}
	if ident.BrandID == nil || *ident.BrandID != target {
		t.Fatalf("brand id = %v, want %s", ident.BrandID, target)
	}
	if !ident.Impersonating() {
		t.Error("expected impersonation to be active")
	}
}

func TestResolveIdentitySuperAdminInvalidHeader(t *testing.T) {
	ident := ResolveIdentity(claimsFor(uuid.New(), RoleSuperAdmin, nil), "not-a-uuid")

	if ident.BrandID != nil {
		t.Fatalf("invalid header must not set a brand, got %v", ident.BrandID)
	}
}

func TestResolveIdentitySuperAdminIgnoresTokenBrand(t *testing.T) {
	// A stale brand id in a super admin's token must not leak into scope.
	stale := uuid.New()

	ident := ResolveIdentity(claimsFor(uuid.New(), RoleSuperAdmin, &stale), "")

	if ident.BrandID != nil {
		t.Fatalf("brand id = %v, want nil", ident.BrandID)
	}
}
