package badge

import (
	"context"
	"encoding/json"
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
	BrandID          *uuid.UUID      `json:"brand_id"`
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description"`
	ImageURL         string          `json:"image_url" validate:"omitempty,url"`
	TriggerCondition json.RawMessage `json:"trigger_condition"`
}

type UpdateRequest struct {
	Name             *string         `json:"name" validate:"omitempty,min=1"`
	Description      *string         `json:"description"`
	ImageURL         *string         `json:"image_url" validate:"omitempty,url"`
	TriggerCondition json.RawMessage `json:"trigger_condition"`
}

func (s *Service) List(ctx context.Context, ident auth.Identity) ([]models.Badge, error) {
	brandID, ok, err := ident.ScopeBrand()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Badge{}, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, brand_id, name, description, image_url, trigger_condition, created_at
		 FROM badges WHERE brand_id = $1
		 ORDER BY created_at DESC`,
		brandID,
	)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	badges := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.BrandID, &b.Name, &b.Description, &b.ImageURL, &b.TriggerCondition, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, nil
}

func (s *Service) Create(ctx context.Context, ident auth.Identity, req CreateRequest) (*models.Badge, error) {
	brandID, err := ident.CreationBrand(req.BrandID)
	if err != nil {
		return nil, err
	}

	var b models.Badge
	err = s.db.QueryRow(ctx,
		`INSERT INTO badges (brand_id, name, description, image_url, trigger_condition)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, brand_id, name, description, image_url, trigger_condition, created_at`,
		brandID, req.Name, req.Description, req.ImageURL, req.TriggerCondition,
	).Scan(&b.ID, &b.BrandID, &b.Name, &b.Description, &b.ImageURL, &b.TriggerCondition, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert badge: %w", err)
	}
	return &b, nil
}

func (s *Service) Update(ctx context.Context, ident auth.Identity, id uuid.UUID, req UpdateRequest) (*models.Badge, error) {
	if err := s.checkOwnership(ctx, ident, id); err != nil {
		return nil, err
	}

	query := "UPDATE badges SET"
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
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.ImageURL != nil {
		set("image_url", *req.ImageURL)
	}
	if len(req.TriggerCondition) > 0 {
		set("trigger_condition", req.TriggerCondition)
	}
	if argIdx == 1 {
		return nil, apperr.Validation("no fields to update")
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING id, brand_id, name, description, image_url, trigger_condition, created_at", argIdx)
	args = append(args, id)

	var b models.Badge
	err := s.db.QueryRow(ctx, query, args...).Scan(&b.ID, &b.BrandID, &b.Name, &b.Description, &b.ImageURL, &b.TriggerCondition, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("update badge: %w", err)
	}
	return &b, nil
}

func (s *Service) Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	if err := s.checkOwnership(ctx, ident, id); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM badges WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete badge: %w", err)
	}
	return nil
}

func (s *Service) checkOwnership(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	var ownerBrandID uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT brand_id FROM badges WHERE id = $1", id).Scan(&ownerBrandID)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Info("badge write to missing row", "badge_id", id, "user_id", ident.UserID)
		return apperr.Forbidden()
	}
	if err != nil {
		return fmt.Errorf("fetch badge owner: %w", err)
	}
	if err := ident.CanAccessBrand(ownerBrandID); err != nil {
		slog.Info("badge write denied", "badge_id", id, "user_id", ident.UserID, "owner_brand", ownerBrandID)
		return err
	}
	return nil
}
