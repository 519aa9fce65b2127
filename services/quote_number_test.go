package services

import (
	"testing"
	"time"
)

func TestQuoteIDPrefix(t *testing.T) {
	d := time.Date(2026, 1, 15, 23, 59, 0, 0, time.UTC)
	if got := QuoteIDPrefix(d); got != "20260115" {
		t.Errorf("QuoteIDPrefix() = %q, want 20260115", got)
	}
}

func TestNextQuoteID(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		existing []string
		expect   string
	}{
		{"first of the day", nil, "20260115-001"},
		{"other days ignored", []string{"20260114-007", "20260116-002"}, "20260115-001"},
		{"after highest", []string{"20260115-001", "20260115-004", "20260115-002"}, "20260115-005"},
		{"gaps are not reused", []string{"20260115-003"}, "20260115-004"},
		{"malformed ignored", []string{"20260115-abc", "legacy-1"}, "20260115-001"},
		{"beyond three digits", []string{"20260115-999"}, "20260115-1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextQuoteID(now, tt.existing); got != tt.expect {
				t.Errorf("NextQuoteID() = %q, want %q", got, tt.expect)
			}
		})
	}
}
