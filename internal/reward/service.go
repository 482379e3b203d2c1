package reward

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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
	UserID      *uuid.UUID `json:"user_id"`
	BadgeID     *uuid.UUID `json:"badge_id"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Code        string     `json:"code"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func (s *Service) List(ctx context.Context, ident auth.Identity) ([]models.Reward, error) {
	brandID, ok, err := ident.ScopeBrand()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Reward{}, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, brand_id, user_id, badge_id, title, description, code, is_used, used_at, expires_at, created_at
		 FROM rewards WHERE brand_id = $1
		 ORDER BY created_at DESC`,
		brandID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	rewards := []models.Reward{}
	for rows.Next() {
		var r models.Reward
		if err := rows.Scan(&r.ID, &r.BrandID, &r.UserID, &r.BadgeID, &r.Title, &r.Description, &r.Code, &r.IsUsed, &r.UsedAt, &r.ExpiresAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, r)
	}
	return rewards, nil
}

func (s *Service) Create(ctx context.Context, ident auth.Identity, req CreateRequest) (*models.Reward, error) {
	brandID, err := ident.CreationBrand(req.BrandID)
	if err != nil {
		return nil, err
	}

	var r models.Reward
	err = s.db.QueryRow(ctx,
		`INSERT INTO rewards (brand_id, user_id, badge_id, title, description, code, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, brand_id, user_id, badge_id, title, description, code, is_used, used_at, expires_at, created_at`,
		brandID, req.UserID, req.BadgeID, req.Title, req.Description, req.Code, req.ExpiresAt,
	).Scan(&r.ID, &r.BrandID, &r.UserID, &r.BadgeID, &r.Title, &r.Description, &r.Code, &r.IsUsed, &r.UsedAt, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	return &r, nil
}

// Use redeems a reward once. Redeeming an already-used reward is a conflict,
// not an error the client should retry.
func (s *Service) Use(ctx context.Context, ident auth.Identity, id uuid.UUID) (*models.Reward, error) {
	var ownerBrandID uuid.UUID
	var isUsed bool
	err := s.db.QueryRow(ctx, "SELECT brand_id, is_used FROM rewards WHERE id = $1", id).Scan(&ownerBrandID, &isUsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("reward not found")
	}
	if err != nil {
		return nil, fmt.Errorf("fetch reward: %w", err)
	}
	if err := ident.CanAccessBrand(ownerBrandID); err != nil {
		slog.Info("reward redemption denied", "reward_id", id, "user_id", ident.UserID, "owner_brand", ownerBrandID)
		return nil, err
	}
	if isUsed {
		return nil, apperr.Conflict("reward already used")
	}

	var r models.Reward
	err = s.db.QueryRow(ctx,
		`UPDATE rewards SET is_used = true, used_at = now()
		 WHERE id = $1 AND is_used = false
		 RETURNING id, brand_id, user_id, badge_id, title, description, code, is_used, used_at, expires_at, created_at`,
		id,
	).Scan(&r.ID, &r.BrandID, &r.UserID, &r.BadgeID, &r.Title, &r.Description, &r.Code, &r.IsUsed, &r.UsedAt, &r.ExpiresAt, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost a race with a concurrent redemption.
		return nil, apperr.Conflict("reward already used")
	}
	if err != nil {
		return nil, fmt.Errorf("redeem reward: %w", err)
	}
	return &r, nil
}

func (s *Service) Delete(ctx context.Context, ident auth.Identity, id uuid.UUID) error {
	var ownerBrandID uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT brand_id FROM rewards WHERE id = $1", id).Scan(&ownerBrandID)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Info("reward delete of missing row", "reward_id", id, "user_id", ident.UserID)
		return apperr.Forbidden()
	}
	if err != nil {
		return fmt.Errorf("fetch reward owner: %w", err)
	}
	if err := ident.CanAccessBrand(ownerBrandID); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, "DELETE FROM rewards WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}
