package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Scan is append-only. UserID is nil for anonymous scans.
type Scan struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	CampaignID uuid.UUID       `json:"campaign_id" db:"campaign_id"`
	UserID     *uuid.UUID      `json:"user_id,omitempty" db:"user_id"`
	Location   string          `json:"location" db:"location"`
	DeviceType string          `json:"device_type" db:"device_type"`
	IPAddress  string          `json:"ip_address" db:"ip_address"`
	Metadata   json.RawMessage `json:"metadata" db:"metadata"`
	ScannedAt  time.Time       `json:"scanned_at" db:"scanned_at"`
}
