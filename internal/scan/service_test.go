package scan

import "testing"

func TestMilestoneReached(t *testing.T) {
	tests := []struct {
		total int
		want  int
		hit   bool
	}{
		{0, 0, false},
		{9, 0, false},
		{10, 10, true},
		{11, 0, false},
		{50, 50, true},
		{100, 100, true},
		{499, 0, false},
		{500, 500, true},
		{501, 0, false},
	}

	for _, tt := range tests {
		got, hit := MilestoneReached(tt.total)
		if got != tt.want || hit != tt.hit {
			t.Errorf("MilestoneReached(%d) = (%d, %v), want (%d, %v)", tt.total, got, hit, tt.want, tt.hit)
		}
	}
}
