package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func authedRequest(t *testing.T, codec *TokenCodec, role Role, brandID *uuid.UUID, header string) *http.Request {
	t.Helper()
	raw, err := codec.Issue(uuid.New(), "user@example.com", "User", role, brandID, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	if header != "" {
		req.Header.Set(BrandHeader, header)
	}
	return req
}

func TestAuthenticateMissingToken(t *testing.T) {
	mw := NewMiddleware(NewTokenCodec("secret"))
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateExpiredTokenCode(t *testing.T) {
	codec := NewTokenCodec("secret")
	mw := NewMiddleware(codec)

	raw, err := codec.Issue(uuid.New(), "user@example.com", "User", RoleBrand, nil, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	rec := httptest.NewRecorder()
	mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["code"] != "token_expired" {
		t.Errorf("code = %q, want token_expired", body["code"])
	}
}

func TestAuthenticateThreadsIdentity(t *testing.T) {
	codec := NewTokenCodec("secret")
	mw := NewMiddleware(codec)
	brandID := uuid.New()

	var got Identity
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("identity missing from context")
		}
		got = ident
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, codec, RoleAdmin, &brandID, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got.Role != RoleAdmin {
		t.Errorf("role = %q, want %q", got.Role, RoleAdmin)
	}
	if got.BrandID == nil || *got.BrandID != brandID {
		t.Errorf("brand id = %v, want %s", got.BrandID, brandID)
	}
}

func TestAuthenticateImpersonationHeader(t *testing.T) {
	codec := NewTokenCodec("secret")
	mw := NewMiddleware(codec)
	target := uuid.New()

	var got Identity
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, codec, RoleSuperAdmin, nil, target.String()))

	if got.Role != RoleBrand {
		t.Errorf("effective role = %q, want %q", got.Role, RoleBrand)
	}
	if got.BrandID == nil || *got.BrandID != target {
		t.Errorf("brand id = %v, want %s", got.BrandID, target)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	codec := NewTokenCodec("secret")
	mw := NewMiddleware(codec)

	var calls int
	handler := mw.Authenticate(RequireSuperAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})))

	brandID := uuid.New()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, codec, RoleAdmin, &brandID, ""))
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin member: status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, codec, RoleSuperAdmin, nil, ""))
	if rec.Code != http.StatusOK {
		t.Errorf("super admin: status = %d, want 200", rec.Code)
	}

	// Impersonation must not lock the admin console.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, codec, RoleSuperAdmin, nil, uuid.NewString()))
	if rec.Code != http.StatusOK {
		t.Errorf("impersonating super admin: status = %d, want 200", rec.Code)
	}

	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
}
