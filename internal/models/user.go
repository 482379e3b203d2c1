package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProviderInvited marks a placeholder account created through a team invite.
// The row is claimed (auth_id overwritten) when the invitee first logs in.
const ProviderInvited = "invited"

type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	AuthID    string     `json:"-" db:"auth_id"`
	Email     string     `json:"email" db:"email"`
	Name      string     `json:"name" db:"name"`
	Role      string     `json:"role" db:"role"`
	BrandID   *uuid.UUID `json:"brand_id,omitempty" db:"brand_id"`
	Provider  string     `json:"provider" db:"provider"`
	AvatarURL string     `json:"avatar_url" db:"avatar_url"`
	// Raw preference JSON; nil means the user never touched settings and
	// every channel defaults to enabled.
	NotificationPreferences json.RawMessage `json:"notification_preferences,omitempty" db:"notification_preferences"`
	CreatedAt               time.Time       `json:"created_at" db:"created_at"`
}
