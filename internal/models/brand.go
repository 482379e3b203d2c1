package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Brand is the tenant boundary. Every scoped row carries its id.
type Brand struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	ManagerEmail string          `json:"manager_email" db:"manager_email"`
	Metadata     json.RawMessage `json:"metadata" db:"metadata"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
