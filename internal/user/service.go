// Package user covers account lifecycle: the social-login sync and the
// self-service path where an onboarding user founds their own brand.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archetypehq/qrtrack/internal/auth"
	"github.com/archetypehq/qrtrack/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type SocialProfile struct {
	Provider   string `json:"provider" validate:"required"`
	ProviderID string `json:"providerId" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url" validate:"omitempty,url"`
}

// UpsertSocial syncs a third-party OAuth profile into the account table.
// Matching is by email, so an invite placeholder gets claimed here: its
// auth_id and provider are overwritten while role and brand stick.
func (s *Service) UpsertSocial(ctx context.Context, p SocialProfile) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1`, p.Email,
	).Scan(&u.ID)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = s.db.QueryRow(ctx,
			`INSERT INTO users (auth_id, email, name, provider, avatar_url, role)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, auth_id, email, name, role, brand_id, provider, avatar_url, notification_preferences, created_at`,
			p.ProviderID, p.Email, p.Name, p.Provider, p.AvatarURL, string(auth.RoleBrand),
		).Scan(&u.ID, &u.AuthID, &u.Email, &u.Name, &u.Role, &u.BrandID, &u.Provider, &u.AvatarURL, &u.NotificationPreferences, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert user: %w", err)
		}
		return &u, nil
	case err != nil:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	err = s.db.QueryRow(ctx,
		`UPDATE users SET auth_id = $1, provider = $2, name = $3, avatar_url = $4
		 WHERE id = $5
		 RETURNING id, auth_id, email, name, role, brand_id, provider, avatar_url, notification_preferences, created_at`,
		p.ProviderID, p.Provider, p.Name, p.AvatarURL, u.ID,
	).Scan(&u.ID, &u.AuthID, &u.Email, &u.Name, &u.Role, &u.BrandID, &u.Provider, &u.AvatarURL, &u.NotificationPreferences, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

type CreateBrandRequest struct {
	Name         string `json:"name" validate:"required"`
	ManagerEmail string `json:"manager_email" validate:"omitempty,email"`
}

// CreateOwnBrand founds a brand and binds the caller to it in one
// transaction, ending the onboarding-limbo state. The handler reissues the
// token afterwards so the new scope takes effect immediately.
func (s *Service) CreateOwnBrand(ctx context.Context, ident auth.Identity, req CreateBrandRequest) (*models.Brand, error) {
	managerEmail := req.ManagerEmail
	if managerEmail == "" {
		managerEmail = ident.Email
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var b models.Brand
	err = tx.QueryRow(ctx,
		`INSERT INTO brands (name, manager_email, metadata)
		 VALUES ($1, $2, '{}')
		 RETURNING id, name, manager_email, metadata, created_at`,
		req.Name, managerEmail,
	).Scan(&b.ID, &b.Name, &b.ManagerEmail, &b.Metadata, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert brand: %w", err)
	}

	if _, err := tx.Exec(ctx, "UPDATE users SET brand_id = $1 WHERE id = $2", b.ID, ident.UserID); err != nil {
		return nil, fmt.Errorf("bind user to new brand: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &b, nil
}
