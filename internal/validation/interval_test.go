package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		startA, endA, startB, endB time.Time
		want                       bool
	}{
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
		{"partial overlap", at(10, 0), at(11, 0), at(10, 30), at(11, 30), true},
		{"contained", at(10, 0), at(12, 0), at(10, 30), at(11, 0), true},
		{"adjacent end-to-start", at(10, 0), at(11, 0), at(11, 0), at(12, 0), false},
		{"adjacent start-to-end", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(14, 0), at(15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.startA, tt.endA, tt.startB, tt.endB)
			assert.Equal(t, tt.want, got)

			// Overlap is symmetric.
			assert.Equal(t, got, Overlaps(tt.startB, tt.endB, tt.startA, tt.endA))
		})
	}
}

func TestDurationMinutes(t *testing.T) {
	assert.Equal(t, 30, DurationMinutes(at(10, 0), at(10, 30)))
	assert.Equal(t, 90, DurationMinutes(at(10, 0), at(11, 30)))
	assert.Equal(t, 0, DurationMinutes(at(10, 0), at(10, 0)))
}
