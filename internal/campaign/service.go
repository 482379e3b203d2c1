// Package campaign owns CRUD for QR campaigns. Every operation takes the
// caller's effective identity explicitly and scopes to its brand.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archetypehq/qrtrack/internal/apperr"
	"github.com/archetypehq/qrtrack/internal/auth"
	"github.com/archetypehq/qrtrack/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type CreateRequest struct {
	BrandID     *uuid.UUID `json:"brand_id"`
	Name        string     `json:"name" validate:"required"`
	URL         string     `json:"url" validate:"required,url"`
	URLB        *string    `json:"url_b" validate:"omitempty,url"`
	IsActive    bool       `json:"is_active"`
	IsABTest    bool       `json:"is_ab_test"`
	OriginalCPA float64    `json:"original_cpa" validate:"gte=0"`
}

type UpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	URL         *string  `json:"url" validate:"omitempty,url"`
	URLB        *string  `json:"url_b" validate:"omitempty,url"`
	IsActive    *bool    `json:"is_active"`
	IsABTest    *bool    `json:"is_ab_test"`
	OriginalCPA *float64 `json:"original_cpa" validate:"omitempty,gte=0"`
}

// List applies the brand filter in SQL. Callers scoped to nothing get an
// empty slice without a query.
func (s *Service) List(ctx context.Context, ident auth.Identity) ([]models.Campaign, error) {
	brandID, ok, err := ident.ScopeBrand()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Campaign{}, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, brand_id, name, url, url_b, is_active, is_ab_test, original_cpa, created_at
		 FROM campaigns WHERE brand_id = $1
		 ORDER BY created_at DESC`,
		brandID,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []models.Campaign{}
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.BrandID, &c.Name, &c.URL, &c.URLB, &c.IsActive, &c.IsABTest, &c.OriginalCPA, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, nil
}

// Create ignores any client-supplied brand id unless the caller is a
// non-impersonating super admin creating on a brand's behalf.
func (s *Service) Create(ctx context.Context, ident auth.Identity, req CreateRequest) (*models.Campaign, error) {
	brandID, err := ident.CreationBrand(req.BrandID)
	if err != nil {
		return nil, err
	}

	var c models.Campaign
	err = s.db.QueryRow(ctx,
		`INSERT INTO campaigns (brand_id, name, url, url_b, is_active, is_ab_test, original_cpa)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, brand_id, name, url, url_b, is_active, is_ab_test, original_cpa, created_at`,
		brandID, req.Name, req.URL, req.URLB, req.IsActive, req.IsABTest, req.OriginalCPA,
	).Scan(&c.ID, &c.BrandID, &c.Name, &c.URL, &c.URLB, &c.IsActive, &c.IsABTest, &c.OriginalCPA, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return &c, nil
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id uuid.UUID, req UpdateRequest) (*models.Campaign, error) {
	if err := s.checkOwnership(ctx, ident, id); err != nil {
		return nil, err
	}

	query := "UPDATE campaigns SET"
	args := []interface{}{}
	argIdx := 1
	set := func(col string, val interface{}) {
		if argIdx > 1 {
			query += ","
		}
		query += fmt.Sprintf(" %s = $%d", col, argIdx)
		args = append(args, val)
		argIdx++
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.URL != nil {
		set("url", *req.URL)
	}
	if req.URLB != nil {
		set("url_b", *req.URLB)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}
	if req.IsABTest != nil {
		set("is_ab_test", *req.IsABTest)
	}
	if req.OriginalCPA != nil {
		set("original_cpa", *req.OriginalCPA)
	}
	if argIdx == 1 {
		return nil, apperr.Validation("no fields to update")
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING id, brand_id, name, url, url_b, is_active, is_ab_test, original_cpa, created_at", argIdx)
	args = append(args, id)

	var c models.Campaign
	err := s.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.BrandID, &c.Name, &c.URL, &c.URLB, &c.IsActive, &c.IsABTest, &c.OriginalCPA, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return &c, nil
}

func (s *Service) Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	if err := s.checkOwnership(ctx, ident, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM campaigns WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}

// checkOwnership reads the row's brand before any write. A missing row and
// another tenant's row both come back as forbidden so resource ids cannot be
// probed across brands; the distinction is kept in the log only.
func (s *Service) checkOwnership(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	var ownerBrandID uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT brand_id FROM campaigns WHERE id = $1", id).Scan(&ownerBrandID)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Info("campaign write to missing row", "campaign_id", id, "user_id", ident.UserID)
		return apperr.Forbidden()
	}
	if err != nil {
		return fmt.Errorf("fetch campaign owner: %w", err)
	}
	if err := ident.CanAccessBrand(ownerBrandID); err != nil {
		slog.Info("campaign write denied", "campaign_id", id, "user_id", ident.UserID, "owner_brand", ownerBrandID)
		return err
	}
	return nil
}
