package notification

import (
	"encoding/json"
	"testing"
)

func TestParsePreferencesDefaults(t *testing.T) {
	prefs := ParsePreferences(nil)
	if prefs != DefaultPreferences() {
		t.Errorf("nil input = %+v, want defaults", prefs)
	}

	prefs = ParsePreferences(json.RawMessage(`{}`))
	if prefs != DefaultPreferences() {
		t.Errorf("empty object = %+v, want defaults", prefs)
	}
}

func TestParsePreferencesPartialOverlay(t *testing.T) {
	prefs := ParsePreferences(json.RawMessage(`{"weekly_report": false}`))

	if prefs.WeeklyReport {
		t.Error("explicit opt-out must stick")
	}
	if !prefs.Email || !prefs.InApp || !prefs.CampaignMilestone || !prefs.BadgeEarned {
		t.Errorf("unset keys must keep defaults, got %+v", prefs)
	}
}

func TestParsePreferencesMalformed(t *testing.T) {
	prefs := ParsePreferences(json.RawMessage(`not json`))
	if prefs != DefaultPreferences() {
		t.Errorf("malformed input = %+v, want defaults", prefs)
	}
}

func TestAllows(t *testing.T) {
	prefs := DefaultPreferences()
	prefs.BadgeEarned = false

	if prefs.Allows(EventBadgeEarned) {
		t.Error("opted-out event must be suppressed")
	}
	if !prefs.Allows(EventWeeklyReport) {
		t.Error("enabled event must pass")
	}
	if !prefs.Allows(EventSystem) {
		t.Error("system events have no opt-out")
	}
	if !prefs.Allows(EventType("future_event")) {
		t.Error("unknown event types must pass through")
	}
}
