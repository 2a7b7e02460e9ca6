package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consigliere/consigliere/models"
)

func TestApplyCheckIn_FirstCheckIn(t *testing.T) {
	d := day(2025, time.March, 10)
	s := ApplyCheckIn(models.Streak{}, d)

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
	require.NotNil(t, s.LastCheckInDate)
	assert.True(t, s.LastCheckInDate.Equal(d))
}

func TestApplyCheckIn_ConsecutiveDaysExtendRun(t *testing.T) {
	var s models.Streak
	start := day(2025, time.March, 1)
	for i := 0; i < 5; i++ {
		s = ApplyCheckIn(s, start.AddDate(0, 0, i))
		assert.Equal(t, i+1, s.CurrentStreak)
		assert.Equal(t, i+1, s.LongestStreak)
	}
}

func TestApplyCheckIn_GapResetsCurrentKeepsLongest(t *testing.T) {
	var s models.Streak
	s = ApplyCheckIn(s, day(2025, time.March, 1))
	s = ApplyCheckIn(s, day(2025, time.March, 2))
	// skip March 3
	s = ApplyCheckIn(s, day(2025, time.March, 4))

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.LongestStreak)
}

func TestApplyCheckIn_SameDayIsNoop(t *testing.T) {
	d := day(2025, time.March, 10)
	s := ApplyCheckIn(models.Streak{}, d)
	again := ApplyCheckIn(s, d)

	assert.Equal(t, s.CurrentStreak, again.CurrentStreak)
	assert.Equal(t, s.LongestStreak, again.LongestStreak)
}

func TestApplyCheckIn_LongestNeverBelowCurrent(t *testing.T) {
	// Mixed runs and gaps; the invariant must hold after every update.
	dates := []time.Time{
		day(2025, time.January, 1),
		day(2025, time.January, 2),
		day(2025, time.January, 3),
		day(2025, time.January, 7),
		day(2025, time.January, 8),
		day(2025, time.February, 1),
		day(2025, time.February, 2),
		day(2025, time.February, 3),
		day(2025, time.February, 4),
	}
	var s models.Streak
	for _, d := range dates {
		s = ApplyCheckIn(s, d)
		assert.GreaterOrEqual(t, s.LongestStreak, s.CurrentStreak)
	}
	assert.Equal(t, 4, s.CurrentStreak)
	assert.Equal(t, 4, s.LongestStreak)
}

func TestRebuildStreak_MatchesIncrementalReplay(t *testing.T) {
	dates := []time.Time{
		day(2025, time.May, 1),
		day(2025, time.May, 2),
		day(2025, time.May, 5),
		day(2025, time.May, 6),
		day(2025, time.May, 7),
	}
	s := RebuildStreak(dates)

	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
	require.NotNil(t, s.LastCheckInDate)
	assert.True(t, s.LastCheckInDate.Equal(day(2025, time.May, 7)))
}

func TestRebuildStreak_Empty(t *testing.T) {
	s := RebuildStreak(nil)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 0, s.LongestStreak)
	assert.Nil(t, s.LastCheckInDate)
}

func TestEffectiveStreak(t *testing.T) {
	today := day(2025, time.June, 10)
	yesterday := today.AddDate(0, 0, -1)
	threeDaysAgo := today.AddDate(0, 0, -3)

	tests := []struct {
		name        string
		last        *time.Time
		wantCurrent int
	}{
		{"checked in today keeps run alive", &today, 4},
		{"checked in yesterday keeps run alive", &yesterday, 4},
		{"older than yesterday reads as zero", &threeDaysAgo, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := models.Streak{CurrentStreak: 4, LongestStreak: 9, LastCheckInDate: tt.last}
			got := EffectiveStreak(stored, today)

			assert.Equal(t, tt.wantCurrent, got.CurrentStreak)
			// Longest and the anchor date are never touched by reads.
			assert.Equal(t, 9, got.LongestStreak)
			assert.Equal(t, tt.last, got.LastCheckInDate)
		})
	}

	t.Run("zero-valued streak passes through", func(t *testing.T) {
		got := EffectiveStreak(models.Streak{}, today)
		assert.Equal(t, 0, got.CurrentStreak)
		assert.Equal(t, 0, got.LongestStreak)
	})
}
