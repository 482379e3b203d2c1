package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Badge struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BrandID     uuid.UUID `json:"brand_id" db:"brand_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	// JSON rule evaluated against scan history, e.g. {"scan_count_gte": 3}.
	TriggerCondition json.RawMessage `json:"trigger_condition,omitempty" db:"trigger_condition"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

type UserBadge struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID  uuid.UUID `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}
