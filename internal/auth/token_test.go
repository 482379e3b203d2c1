package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/apperr"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	userID := uuid.New()
	brandID := uuid.New()

	raw, err := codec.Issue(userID, "a@b.com", "Alice", RoleAdmin, &brandID, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	gotID, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if gotID != userID {
		t.Errorf("user id = %s, want %s", gotID, userID)
	}
	if claims.Email != "a@b.com" {
		t.Errorf("email = %q, want %q", claims.Email, "a@b.com")
	}
	if claims.Role != RoleAdmin {
		t.Errorf("role = %q, want %q", claims.Role, RoleAdmin)
	}
	if claims.BrandID == nil || *claims.BrandID != brandID {
		t.Errorf("brand id = %v, want %s", claims.BrandID, brandID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	raw, err := codec.Issue(uuid.New(), "a@b.com", "Alice", RoleBrand, nil, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = codec.Verify(raw)
	if !apperr.IsCode(err, apperr.CodeTokenExpired) {
		t.Fatalf("expected token_expired, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenCodec("secret-one")
	verifier := NewTokenCodec("secret-two")

	raw, err := issuer.Issue(uuid.New(), "a@b.com", "Alice", RoleBrand, nil, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = verifier.Verify(raw)
	if !apperr.IsCode(err, apperr.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	if _, err := codec.Verify("not.a.token"); !apperr.IsCode(err, apperr.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":       RoleAdmin,
		"super_admin": RoleSuperAdmin,
		"brand":       RoleBrand,
		"":            RoleBrand,
		"bogus":       RoleBrand,
	}
	for in, want := range cases {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}
