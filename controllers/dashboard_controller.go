package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/consigliere/consigliere/services"
	"github.com/consigliere/consigliere/utils"
)

// DashboardController serves the composed landing view and the daily quote.
type DashboardController struct {
	dashboard *services.DashboardService
	quotes    services.QuoteProvider
}

// NewDashboardController creates a DashboardController.
func NewDashboardController(dashboard *services.DashboardService, quotes services.QuoteProvider) *DashboardController {
	return &DashboardController{dashboard: dashboard, quotes: quotes}
}

// Dashboard returns today's check-in state, the streak, and the daily quote
// in one response.
func (d *DashboardController) Dashboard(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	view, err := d.dashboard.Compose(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to compose dashboard")
		return
	}
	utils.Success(ctx, view)
}

// Quote returns the quote assigned to today.
func (d *DashboardController) Quote(ctx *gin.Context) {
	quote, err := d.quotes.Today(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load daily quote")
		return
	}
	utils.Success(ctx, quote)
}
