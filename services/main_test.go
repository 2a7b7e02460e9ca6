package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/consigliere/consigliere/models"
)

// setupTestDB opens an isolated in-memory database per test. The shared-cache
// name keeps the schema alive across the pool's connections while the test
// name keeps databases apart between tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.CheckIn{}, &models.Streak{}, &models.DailyQuote{}))
	return db
}

// day builds a normalized calendar date.
func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// seedCheckIn inserts a check-in row directly, bypassing the service.
func seedCheckIn(t *testing.T, db *gorm.DB, userID uint, date time.Time, pages, videos int) {
	t.Helper()
	require.NoError(t, db.Create(&models.CheckIn{
		UserID:        userID,
		CheckInDate:   date,
		PagesRead:     pages,
		VideosWatched: videos,
	}).Error)
}
