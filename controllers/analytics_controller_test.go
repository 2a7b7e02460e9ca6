package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/consigliere/consigliere/middleware"
	"github.com/consigliere/consigliere/models"
	"github.com/consigliere/consigliere/services"
)

// setupAnalyticsRouter builds a minimal engine around the weekly endpoint with
// the auth middleware replaced by a stub that injects the given user ID.
func setupAnalyticsRouter(t *testing.T, userID uint) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.CheckIn{}, &models.Streak{}))

	clock := services.FixedClock{Day: time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)}
	ctrl := NewAnalyticsController(db, services.NewAnalyticsService(db, clock))

	r := gin.New()
	r.GET("/analytics/weekly", func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, userID)
		ctrl.Weekly(ctx)
	})
	return r, db
}

func TestWeeklyMissingAccountIsUnauthorized(t *testing.T) {
	r, _ := setupAnalyticsRouter(t, 42)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/weekly", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account no longer exists")
}

func TestWeeklyDatabaseFailureIsServerError(t *testing.T) {
	r, db := setupAnalyticsRouter(t, 1)
	require.NoError(t, db.Create(&models.User{
		Email:        "reader@example.com",
		Username:     "reader",
		PasswordHash: "x",
	}).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analytics/weekly", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to load user")
}
