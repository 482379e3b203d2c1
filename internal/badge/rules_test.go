package badge

import (
	"encoding/json"
	"testing"
)

func TestEvaluateTrigger(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		scanCount int
		want      bool
	}{
		{"threshold met exactly", `{"scan_count_gte": 5}`, 5, true},
		{"threshold exceeded", `{"scan_count_gte": 5}`, 8, true},
		{"below threshold", `{"scan_count_gte": 5}`, 4, false},
		{"zero threshold always grants", `{"scan_count_gte": 0}`, 0, true},
		{"empty condition never grants", ``, 100, false},
		{"empty object never grants", `{}`, 100, false},
		{"unknown keys ignored", `{"purchases_gte": 3}`, 100, false},
		{"malformed json never grants", `{scan_count_gte: 5}`, 100, false},
		{"wrong value type never grants", `{"scan_count_gte": "five"}`, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateTrigger(json.RawMessage(tt.raw), tt.scanCount)
			if got != tt.want {
				t.Errorf("EvaluateTrigger(%q, %d) = %v, want %v", tt.raw, tt.scanCount, got, tt.want)
			}
		})
	}
}
