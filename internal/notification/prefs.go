package notification

import "encoding/json"

type EventType string

const (
	EventSystem            EventType = "system"
	EventCampaignMilestone EventType = "campaign_milestone"
	EventBadgeEarned       EventType = "badge_earned"
	EventWeeklyReport      EventType = "weekly_report"
)

// Preferences mirrors the users.notification_preferences column. Channel
// switches (Email, InApp) gate delivery; event switches gate whole event
// types. Everything defaults to on.
type Preferences struct {
	Email             bool `json:"email"`
	InApp             bool `json:"inApp"`
	WeeklyReport      bool `json:"weekly_report"`
	CampaignMilestone bool `json:"campaign_milestone"`
	BadgeEarned       bool `json:"badge_earned"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Email:             true,
		InApp:             true,
		WeeklyReport:      true,
		CampaignMilestone: true,
		BadgeEarned:       true,
	}
}

// ParsePreferences overlays stored JSON on the defaults, so keys the user
// never set stay enabled and only explicit false values opt out.
func ParsePreferences(raw json.RawMessage) Preferences {
	prefs := DefaultPreferences()
	if len(raw) == 0 {
		return prefs
	}
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return DefaultPreferences()
	}
	return prefs
}

// Allows reports whether the given event type is enabled. Unknown event
// types pass through; only a recognized explicit opt-out suppresses.
func (p Preferences) Allows(event EventType) bool {
	switch event {
	case EventWeeklyReport:
		return p.WeeklyReport
	case EventCampaignMilestone:
		return p.CampaignMilestone
	case EventBadgeEarned:
		return p.BadgeEarned
	default:
		return true
	}
}
