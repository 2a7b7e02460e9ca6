package services

import "time"

// Clock resolves the current calendar date. Date values produced here are
// normalized to midnight UTC so that equality and day arithmetic never depend
// on the wall-clock time a request happened to arrive at.
type Clock interface {
	Today() time.Time
}

type locationClock struct {
	loc *time.Location
}

// NewClock returns a Clock that resolves "today" in the given IANA timezone.
// An empty or unknown name falls back to UTC.
func NewClock(timezone string) Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		loc = time.UTC
	}
	return locationClock{loc: loc}
}

func (c locationClock) Today() time.Time {
	now := time.Now().In(c.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedClock pins Today to a single date, used by tests and backfills.
type FixedClock struct {
	Day time.Time
}

func (c FixedClock) Today() time.Time { return Midnight(c.Day) }

// Midnight truncates a timestamp to its calendar date at midnight UTC.
// Database date columns round-trip through this so comparisons stay exact.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
