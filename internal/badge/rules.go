package badge

import "encoding/json"

// TriggerRule is the supported shape of badges.trigger_condition. The only
// rule today is a scan-count threshold on the scanned campaign.
type TriggerRule struct {
	ScanCountGTE *int `json:"scan_count_gte"`
}

// EvaluateTrigger decides deterministically whether a badge's condition is
// met by the user's scan count. A badge with no condition, or one that does
// not parse, never auto-grants.
func EvaluateTrigger(raw json.RawMessage, scanCount int) bool {
	if len(raw) == 0 {
		return false
	}
	var rule TriggerRule
	if err := json.Unmarshal(raw, &rule); err != nil {
		return false
	}
	if rule.ScanCountGTE == nil {
		return false
	}
	return scanCount >= *rule.ScanCountGTE
}
