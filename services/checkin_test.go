package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/consigliere/consigliere/models"
)

func newTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		Email:        "reader@example.com",
		Username:     "reader",
		PasswordHash: "x",
		PagesGoal:    10,
		VideosGoal:   1,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestCheckInCreate_FirstOfDay(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	today := day(2025, time.April, 10)
	svc := NewCheckInService(db, FixedClock{Day: today})

	checkIn, err := svc.Create(context.Background(), user.ID, 12, 1, "finished chapter 3")
	require.NoError(t, err)
	assert.True(t, checkIn.CheckInDate.Equal(today))
	assert.Equal(t, 12, checkIn.PagesRead)
	assert.Equal(t, 1, checkIn.VideosWatched)

	streak, err := svc.Streak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
}

func TestCheckInCreate_SecondSameDayConflicts(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	svc := NewCheckInService(db, FixedClock{Day: day(2025, time.April, 10)})

	first, err := svc.Create(context.Background(), user.ID, 5, 0, "")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), user.ID, 99, 9, "")
	assert.ErrorIs(t, err, ErrConflict)

	// The stored check-in is unchanged and history shows exactly one entry.
	history, err := svc.ListHistory(context.Background(), user.ID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, first.ID, history[0].ID)
	assert.Equal(t, 5, history[0].PagesRead)
}

func TestCheckInCreate_RejectsNegativeCounts(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	svc := NewCheckInService(db, FixedClock{Day: day(2025, time.April, 10)})

	_, err := svc.Create(context.Background(), user.ID, -1, 0, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Create(context.Background(), user.ID, 0, -3, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCheckInCreate_NotesSanitizedAndBounded(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	svc := NewCheckInService(db, FixedClock{Day: day(2025, time.April, 10)})

	checkIn, err := svc.Create(context.Background(), user.ID, 1, 0, `watched <script>alert("x")</script>a talk`)
	require.NoError(t, err)
	assert.NotContains(t, checkIn.Notes, "<script>")
	assert.Contains(t, checkIn.Notes, "a talk")

	long := make([]byte, maxNotesLen+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Create(context.Background(), user.ID+1, 1, 0, string(long))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCheckInCreate_NotesCapAppliesAfterEscaping(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	svc := NewCheckInService(db, FixedClock{Day: day(2025, time.April, 10)})

	// 1500 ampersands escape to 7500 stored characters, well past the cap,
	// even though the raw input is under it.
	_, err := svc.Create(context.Background(), user.ID, 1, 0, strings.Repeat("&", 1500))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCheckInCreate_ConsecutiveDaysGrowStreak(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	start := day(2025, time.April, 1)

	for i := 0; i < 3; i++ {
		svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, i)})
		_, err := svc.Create(context.Background(), user.ID, 10, 1, "")
		require.NoError(t, err)
	}

	svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, 2)})
	streak, err := svc.Streak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
}

func TestCheckInCreate_SkippedDayResetsCurrentOnly(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	start := day(2025, time.April, 1)

	// Day 1, day 2, skip day 3, day 4.
	for _, offset := range []int{0, 1, 3} {
		svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, offset)})
		_, err := svc.Create(context.Background(), user.ID, 10, 1, "")
		require.NoError(t, err)
	}

	svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, 3)})
	streak, err := svc.Streak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestStreakRead_DecaysAfterQuietDays(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	start := day(2025, time.April, 1)

	for i := 0; i < 2; i++ {
		svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, i)})
		_, err := svc.Create(context.Background(), user.ID, 10, 1, "")
		require.NoError(t, err)
	}

	// Viewed the day after the last check-in the run is still alive.
	svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, 2)})
	streak, err := svc.Streak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.CurrentStreak)

	// Two quiet days later the current reads as zero; longest survives.
	svc = NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, 4)})
	streak, err = svc.Streak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}

func TestGetByDate_AbsentIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	svc := NewCheckInService(db, FixedClock{Day: day(2025, time.April, 10)})

	_, err := svc.GetByDate(context.Background(), user.ID, day(2025, time.April, 9))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Today(context.Background(), user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListHistory_OrderAndLimit(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	start := day(2025, time.April, 1)
	for i := 0; i < 5; i++ {
		seedCheckIn(t, db, user.ID, start.AddDate(0, 0, i), i, 0)
	}
	svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, 5)})

	history, err := svc.ListHistory(context.Background(), user.ID, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].CheckInDate.After(history[1].CheckInDate))
	assert.True(t, history[1].CheckInDate.After(history[2].CheckInDate))
	assert.Equal(t, 4, history[0].PagesRead)
}

func TestRecomputeStreak_MatchesCachedRow(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db)
	start := day(2025, time.April, 1)

	for _, offset := range []int{0, 1, 2, 5, 6} {
		svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, offset)})
		_, err := svc.Create(context.Background(), user.ID, 10, 1, "")
		require.NoError(t, err)
	}

	svc := NewCheckInService(db, FixedClock{Day: start.AddDate(0, 0, 6)})
	cached, err := svc.Streak(context.Background(), user.ID)
	require.NoError(t, err)

	rebuilt, err := svc.RecomputeStreak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, cached.CurrentStreak, rebuilt.CurrentStreak)
	assert.Equal(t, cached.LongestStreak, rebuilt.LongestStreak)
	require.NotNil(t, rebuilt.LastCheckInDate)
	assert.True(t, rebuilt.LastCheckInDate.Equal(start.AddDate(0, 0, 6)))
}
