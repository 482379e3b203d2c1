package models

import (
	"time"

	"github.com/google/uuid"
)

type Campaign struct {
	ID          uuid.UUID `json:"id" db:"id"`
	BrandID     uuid.UUID `json:"brand_id" db:"brand_id"`
	Name        string    `json:"name" db:"name"`
	URL         string    `json:"url" db:"url"`
	URLB        *string   `json:"url_b,omitempty" db:"url_b"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	IsABTest    bool      `json:"is_ab_test" db:"is_ab_test"`
	OriginalCPA float64   `json:"original_cpa" db:"original_cpa"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
