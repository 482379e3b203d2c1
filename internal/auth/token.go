package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/archetypehq/qrtrack/internal/apperr"
)

// Role is a member permission level, not a tenant kind. The wire value
// "brand" doubles as the lowest level for historical reasons.
type Role string

const (
	RoleBrand      Role = "brand"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSuperAdmin:
		return RoleSuperAdmin
	default:
		return RoleBrand
	}
}

const (
	// LoginTokenTTL is the lifetime of tokens issued at social login.
	LoginTokenTTL = 7 * 24 * time.Hour
	// TestTokenTTL is the short lifetime used for manually issued tokens.
	TestTokenTTL = time.Hour
)

// Claims is the full identity payload. Role and brand id ride in the token
// on purpose: authorization never needs a storage round-trip.
type Claims struct {
	Email   string     `json:"email"`
	Name    string     `json:"name"`
	Role    Role       `json:"role"`
	BrandID *uuid.UUID `json:"brand_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenCodec signs and verifies identity tokens with the process-wide
// secret. It holds no other state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

func (c *TokenCodec) Issue(userID uuid.UUID, email, name string, role Role, brandID *uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:   email,
		Name:    name,
		Role:    role,
		BrandID: brandID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the claims of a valid token. Expired tokens come back as
// apperr.CodeTokenExpired, everything else as CodeUnauthenticated; both
// require the caller to re-authenticate.
func (c *TokenCodec) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired()
		}
		return nil, apperr.Wrap(apperr.CodeUnauthenticated, "invalid token", err)
	}
	if !token.Valid {
		return nil, apperr.Unauthenticated("invalid token")
	}
	if _, err := claims.UserID(); err != nil {
		return nil, apperr.Unauthenticated("invalid subject in token")
	}
	return claims, nil
}
