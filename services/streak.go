package services

import (
	"time"

	"github.com/consigliere/consigliere/models"
)

// Streak arithmetic is kept pure: every function here is a plain computation
// over dates, so the cached models.Streak row can always be verified or
// rebuilt from the check-in rows alone.

// ApplyCheckIn returns the streak state after recording a check-in on day d.
// A consecutive day extends the run, anything later restarts it at 1, and the
// longest streak only ever moves up. Recording the same day twice is blocked
// upstream by the store's uniqueness guarantee.
func ApplyCheckIn(s models.Streak, d time.Time) models.Streak {
	d = Midnight(d)
	if s.LastCheckInDate == nil {
		s.CurrentStreak = 1
	} else {
		last := Midnight(*s.LastCheckInDate)
		switch {
		case d.Equal(last):
			return s
		case d.Equal(last.AddDate(0, 0, 1)):
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastCheckInDate = &d
	return s
}

// RebuildStreak replays the update rule over check-in dates sorted ascending.
func RebuildStreak(dates []time.Time) models.Streak {
	var s models.Streak
	for _, d := range dates {
		s = ApplyCheckIn(s, d)
	}
	return s
}

// EffectiveStreak reports the streak as seen at read time. The run is alive
// only if the last check-in was today or yesterday; otherwise the current
// count reads as zero. The stored row is never mutated by mere elapsed time,
// so the next check-in still recomputes from the persisted state.
func EffectiveStreak(s models.Streak, today time.Time) models.Streak {
	if s.LastCheckInDate == nil {
		return s
	}
	today = Midnight(today)
	last := Midnight(*s.LastCheckInDate)
	if last.Before(today.AddDate(0, 0, -1)) {
		s.CurrentStreak = 0
	}
	return s
}
