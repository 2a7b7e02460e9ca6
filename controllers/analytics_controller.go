package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/consigliere/consigliere/models"
	"github.com/consigliere/consigliere/services"
	"github.com/consigliere/consigliere/utils"
)

// AnalyticsController exposes the weekly and monthly rollups.
type AnalyticsController struct {
	db        *gorm.DB
	analytics *services.AnalyticsService
}

// NewAnalyticsController creates an AnalyticsController.
func NewAnalyticsController(db *gorm.DB, analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{db: db, analytics: analytics}
}

// Weekly returns the trailing 7-day summary.
func (a *AnalyticsController) Weekly(ctx *gin.Context) {
	user, ok := a.loadUser(ctx)
	if !ok {
		return
	}

	summary, err := a.analytics.Weekly(ctx.Request.Context(), user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to compute weekly summary")
		return
	}
	utils.Success(ctx, summary)
}

// Monthly returns the calendar-month summary, defaulting to the current month.
func (a *AnalyticsController) Monthly(ctx *gin.Context) {
	user, ok := a.loadUser(ctx)
	if !ok {
		return
	}

	month, ok := queryInt(ctx, "month")
	if !ok {
		return
	}
	year, ok := queryInt(ctx, "year")
	if !ok {
		return
	}

	summary, err := a.analytics.Monthly(ctx.Request.Context(), user, month, year)
	if err != nil {
		if errors.Is(err, services.ErrInvalidArgument) {
			utils.Error(ctx, http.StatusBadRequest, 40011, err.Error())
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to compute monthly summary")
		return
	}
	utils.Success(ctx, summary)
}

// queryInt parses an optional integer query parameter, writing the error
// response itself on malformed input. Absent parameters come back as 0.
func queryInt(ctx *gin.Context, name string) (int, bool) {
	v := strings.TrimSpace(ctx.Query(name))
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func (a *AnalyticsController) loadUser(ctx *gin.Context) (models.User, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return models.User{}, false
	}
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, 40111, "account no longer exists")
			return models.User{}, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load user")
		return models.User{}, false
	}
	return user, true
}
