package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/consigliere/consigliere/services"
	"github.com/consigliere/consigliere/utils"
)

// CheckInController handles the daily check-in lifecycle and streak reads.
type CheckInController struct {
	checkIns *services.CheckInService
}

// NewCheckInController creates a CheckInController.
func NewCheckInController(checkIns *services.CheckInService) *CheckInController {
	return &CheckInController{checkIns: checkIns}
}

// Create records today's check-in. A second attempt on the same day comes
// back as a conflict, which clients treat as "already checked in" and route
// to the completed view rather than an error banner.
func (c *CheckInController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	type request struct {
		PagesRead     int    `json:"pages_read"`
		VideosWatched int    `json:"videos_watched"`
		Notes         string `json:"notes"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	checkIn, err := c.checkIns.Create(ctx.Request.Context(), userID, req.PagesRead, req.VideosWatched, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			utils.Error(ctx, http.StatusConflict, 40903, "already checked in today")
		case errors.Is(err, services.ErrInvalidArgument):
			utils.Error(ctx, http.StatusBadRequest, 40009, err.Error())
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to record check-in")
		}
		return
	}

	utils.RecordCheckIn()
	utils.Created(ctx, checkIn)
}

// Today returns today's check-in, or 404 when the user has not checked in yet.
func (c *CheckInController) Today(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	checkIn, err := c.checkIns.Today(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "no check-in for today")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load check-in")
		return
	}
	utils.Success(ctx, checkIn)
}

// History returns recent check-ins, most-recent date first.
func (c *CheckInController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	limit := 0
	if v := strings.TrimSpace(ctx.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.Error(ctx, http.StatusBadRequest, 40010, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	checkIns, err := c.checkIns.ListHistory(ctx.Request.Context(), userID, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load history")
		return
	}
	utils.Success(ctx, checkIns)
}

// Streak returns the user's streak as of today.
func (c *CheckInController) Streak(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	streak, err := c.checkIns.Streak(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load streak")
		return
	}
	utils.Success(ctx, streak)
}
