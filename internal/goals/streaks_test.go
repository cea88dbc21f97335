package goals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func days(today time.Time, offsets ...int) []time.Time {
	out := make([]time.Time, len(offsets))
	for i, off := range offsets {
		out[i] = today.AddDate(0, 0, -off)
	}
	return out
}

func TestCurrentStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"no days", nil, 0},
		{"three days ending today", days(today, 0, 1, 2), 3},
		{"streak kept alive by yesterday", days(today, 1, 2), 2},
		{"broken two days ago", days(today, 2, 3), 0},
		{"gap cuts the run", days(today, 0, 1, 3, 4), 2},
		{"single day today", days(today, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.dates, today))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"no days", nil, 0},
		{"one run", days(today, 0, 1, 2), 3},
		{"longest run is in the past", days(today, 0, 3, 4, 5), 3},
		{"all isolated", days(today, 0, 2, 4), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestStreak(tt.dates))
		})
	}
}
