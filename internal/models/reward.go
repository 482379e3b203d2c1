package models

import (
	"time"

	"github.com/google/uuid"
)

type Reward struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	BrandID     uuid.UUID  `json:"brand_id" db:"brand_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	BadgeID     *uuid.UUID `json:"badge_id,omitempty" db:"badge_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Code        string     `json:"code" db:"code"`
	IsUsed      bool       `json:"is_used" db:"is_used"`
	UsedAt      *time.Time `json:"used_at,omitempty" db:"used_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
