package domain

import (
	"regexp"
	"testing"
	"time"
)

func TestNextQueueNumber(t *testing.T) {
	tests := []struct {
		name   string
		latest string
		want   string
	}{
		{"no prior orders", "", "Q-001"},
		{"increments", "Q-047", "Q-048"},
		{"pads to three digits", "Q-009", "Q-010"},
		{"grows past three digits", "Q-999", "Q-1000"},
		{"after fallback number", "Q-4821", "Q-4822"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextQueueNumber(tt.latest)
			if err != nil {
				t.Fatalf("NextQueueNumber(%q) error: %v", tt.latest, err)
			}
			if got != tt.want {
				t.Errorf("NextQueueNumber(%q) = %q, want %q", tt.latest, got, tt.want)
			}
		})
	}
}

func TestNextQueueNumber_Garbage(t *testing.T) {
	if _, err := NextQueueNumber("table-7"); err == nil {
		t.Error("expected error for non-numeric queue number")
	}
}

func TestFallbackQueueNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^Q-\d{4}$`)

	now := time.UnixMilli(1718000012345)
	got := FallbackQueueNumber(now)
	if got != "Q-2345" {
		t.Errorf("FallbackQueueNumber = %q, want Q-2345", got)
	}

	later := FallbackQueueNumber(now.Add(7 * time.Millisecond))
	if !pattern.MatchString(later) {
		t.Errorf("FallbackQueueNumber = %q, want Q-#### format", later)
	}
	if later == got {
		t.Errorf("expected distinct fallback numbers, both %q", got)
	}
}
