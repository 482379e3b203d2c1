// Package brand is the administrative CRUD surface over tenants. The router
// gates every entry point behind the super-admin check; brand scoping does
// not apply to the tenant table itself.
package brand

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/archetypehq/qrtrack/internal/apperr"
	"github.com/archetypehq/qrtrack/internal/models"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type CreateRequest struct {
	Name         string          `json:"name" validate:"required"`
	ManagerEmail string          `json:"manager_email" validate:"omitempty,email"`
	Metadata     json.RawMessage `json:"metadata"`
}

type UpdateRequest struct {
	Name         *string         `json:"name" validate:"omitempty,min=1"`
	ManagerEmail *string         `json:"manager_email" validate:"omitempty,email"`
	Metadata     json.RawMessage `json:"metadata"`
}

func (s *Service) List(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, manager_email, metadata, created_at
		 FROM brands ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []models.Brand{}
	for rows.Next() {
		var b models.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.ManagerEmail, &b.Metadata, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	return brands, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Brand, error) {
	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}

	var b models.Brand
	err := s.db.QueryRow(ctx,
		`INSERT INTO brands (name, manager_email, metadata)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, manager_email, metadata, created_at`,
		req.Name, req.ManagerEmail, metadata,
	).Scan(&b.ID, &b.Name, &b.ManagerEmail, &b.Metadata, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert brand: %w", err)
	}
	return &b, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Brand, error) {
	query := "UPDATE brands SET"
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
	if req.ManagerEmail != nil {
		set("manager_email", *req.ManagerEmail)
	}
	if len(req.Metadata) > 0 {
		set("metadata", req.Metadata)
	}
	if argIdx == 1 {
		return nil, apperr.Validation("no fields to update")
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING id, name, manager_email, metadata, created_at", argIdx)
	args = append(args, id)

	var b models.Brand
	err := s.db.QueryRow(ctx, query, args...).Scan(&b.ID, &b.Name, &b.ManagerEmail, &b.Metadata, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("brand not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update brand: %w", err)
	}
	return &b, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM brands WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("brand not found")
	}
	return nil
}
