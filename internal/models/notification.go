package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	BrandID   *uuid.UUID `json:"brand_id,omitempty" db:"brand_id"`
	Type      string     `json:"type" db:"type"`
	Channel   string     `json:"channel" db:"channel"`
	Title     string     `json:"title" db:"title"`
	Message   string     `json:"message" db:"message"`
	IsRead    bool       `json:"is_read" db:"is_read"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type ReportRun struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	PeriodKey   string     `json:"period_key" db:"period_key"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
