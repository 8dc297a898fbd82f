package validation

import "time"

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) overlap. Intervals that merely touch at an endpoint do
// not: an appointment ending at 10:00 and one starting at 10:00 are
// adjacent, not conflicting.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// DurationMinutes returns the length of [start, end) in whole minutes.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
