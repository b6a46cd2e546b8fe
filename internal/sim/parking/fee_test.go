package parking

import (
	"testing"
	"time"
)

func TestComputeFee(t *testing.T) {
	checkIn := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		elapsed     time.Duration
		rate        float64
		wantMinutes int
		wantHours   int
		wantAmount  float64
	}{
		{"zero duration bills one hour", 0, 20, 0, 1, 20},
		{"five minutes bills one hour", 5 * time.Minute, 20, 5, 1, 20},
		{"exactly one hour", time.Hour, 20, 60, 1, 20},
		{"a minute over rounds up", 61 * time.Minute, 20, 61, 2, 40},
		{"two and a half hours", 150 * time.Minute, 15, 150, 3, 45},
		{"negative clock skew treated as zero", -10 * time.Minute, 20, 0, 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minutes, hours, amount := computeFee(checkIn, checkIn.Add(tt.elapsed), tt.rate)
			if minutes != tt.wantMinutes {
				t.Errorf("minutes = %d, want %d", minutes, tt.wantMinutes)
			}
			if hours != tt.wantHours {
				t.Errorf("hours = %d, want %d", hours, tt.wantHours)
			}
			if amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", amount, tt.wantAmount)
			}
		})
	}
}
