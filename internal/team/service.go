// Package team manages the member accounts attached to a brand. Mutations
// require the admin member level on the effective identity, so an
// impersonating super admin is bound by the same rules as a brand member.
package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

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

type Member struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar"`
	Invited   bool      `json:"invited"`
}

type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=brand admin"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=brand admin"`
}

func (s *Service) List(ctx context.Context, ident auth.Identity) ([]Member, error) {
	brandID, ok, err := ident.ScopeBrand()
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Member{}, nil
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, role, avatar_url, provider
		 FROM users WHERE brand_id = $1
		 ORDER BY created_at ASC`,
		brandID,
	)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var m Member
		var provider string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &m.AvatarURL, &provider); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		if m.Name == "" {
			m.Name = strings.SplitN(m.Email, "@", 2)[0]
		}
		m.Invited = provider == models.ProviderInvited
		members = append(members, m)
	}
	return members, nil
}

// Invite binds an existing unaffiliated account to the brand, or creates a
// placeholder row the invitee claims at first login.
func (s *Service) Invite(ctx context.Context, ident auth.Identity, req InviteRequest) error {
	if err := ident.RequireAdminLevel(); err != nil {
		return err
	}
	brandID, err := ident.RequireBrand()
	if err != nil {
		return err
	}
	role := strings.ToLower(req.Role)

	var existing models.User
	err = s.db.QueryRow(ctx,
		"SELECT id, brand_id FROM users WHERE email = $1", req.Email,
	).Scan(&existing.ID, &existing.BrandID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = s.db.Exec(ctx,
			`INSERT INTO users (auth_id, email, provider, role, brand_id)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), req.Email, models.ProviderInvited, role, brandID,
		)
		if err != nil {
			return fmt.Errorf("insert invited user: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("lookup user by email: %w", err)
	}

	if existing.BrandID != nil {
		if *existing.BrandID == brandID {
			return apperr.Conflict("already a member of this team")
		}
		return apperr.Conflict("email belongs to another brand")
	}

	_, err = s.db.Exec(ctx,
		"UPDATE users SET brand_id = $1, role = $2 WHERE id = $3",
		brandID, role, existing.ID,
	)
	if err != nil {
		return fmt.Errorf("bind user to brand: %w", err)
	}
	return nil
}

func (s *Service) UpdateRole(ctx context.Context, ident auth.Identity, memberID uuid.UUID, req UpdateRoleRequest) error {
	if err := ident.RequireAdminLevel(); err != nil {
		return err
	}
	if err := ident.GuardSelfTarget(memberID); err != nil {
		return err
	}
	if err := s.checkSameBrand(ctx, ident, memberID); err != nil {
		return err
	}

	_, err := s.db.Exec(ctx,
		"UPDATE users SET role = $1 WHERE id = $2",
		strings.ToLower(req.Role), memberID,
	)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	return nil
}

// Remove deletes unclaimed invite placeholders outright; real accounts just
// lose the brand association and fall back to the default level.
func (s *Service) Remove(ctx context.Context, ident auth.Identity, memberID uuid.UUID) error {
	if err := ident.RequireAdminLevel(); err != nil {
		return err
	}
	if err := ident.GuardSelfTarget(memberID); err != nil {
		return err
	}
	if err := s.checkSameBrand(ctx, ident, memberID); err != nil {
		return err
	}

	var provider string
	if err := s.db.QueryRow(ctx, "SELECT provider FROM users WHERE id = $1", memberID).Scan(&provider); err != nil {
		return fmt.Errorf("fetch member provider: %w", err)
	}

	if provider == models.ProviderInvited {
		if _, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", memberID); err != nil {
			return fmt.Errorf("delete invited member: %w", err)
		}
		return nil
	}

	_, err := s.db.Exec(ctx,
		"UPDATE users SET brand_id = NULL, role = $1 WHERE id = $2",
		string(auth.RoleBrand), memberID,
	)
	if err != nil {
		return fmt.Errorf("remove member from brand: %w", err)
	}
	return nil
}

func (s *Service) checkSameBrand(ctx context.Context, ident auth.Identity, memberID uuid.UUID) error {
	brandID, err := ident.RequireBrand()
	if err != nil {
		return err
	}

	var memberBrandID *uuid.UUID
	err = s.db.QueryRow(ctx, "SELECT brand_id FROM users WHERE id = $1", memberID).Scan(&memberBrandID)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Info("team action on missing member", "member_id", memberID, "actor_id", ident.UserID)
		return apperr.Forbidden()
	}
	if err != nil {
		return fmt.Errorf("fetch member brand: %w", err)
	}
	if memberBrandID == nil || *memberBrandID != brandID {
		slog.Info("team action across brands denied", "member_id", memberID, "actor_id", ident.UserID)
		return apperr.Forbidden()
	}
	return nil
}
