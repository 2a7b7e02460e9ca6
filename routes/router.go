package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/consigliere/consigliere/config"
	"github.com/consigliere/consigliere/controllers"
	"github.com/consigliere/consigliere/middleware"
	"github.com/consigliere/consigliere/services"
	"github.com/consigliere/consigliere/utils"
)

// SetupRouter wires routes, middlewares, services, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	// Access logs go to their own rolling file, separate from app logs
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/uploads", cfg.UploadDir)

	r.GET("/metrics", gin.WrapH(utils.MetricsHandler()))
	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "healthy"})
	})
	r.GET("/ready", func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
			utils.Error(ctx, http.StatusServiceUnavailable, 50300, "database not ready")
			return
		}
		utils.Success(ctx, gin.H{"status": "ready"})
	})

	clock := services.NewClock(cfg.Timezone)
	checkInService := services.NewCheckInService(db, clock)
	analyticsService := services.NewAnalyticsService(db, clock)
	quoteService := services.NewQuoteService(db, clock, cfg.QuoteAPIURL)
	dashboardService := services.NewDashboardService(checkInService, quoteService)

	authController := controllers.NewAuthController(db)
	checkInController := controllers.NewCheckInController(checkInService)
	analyticsController := controllers.NewAnalyticsController(db, analyticsService)
	dashboardController := controllers.NewDashboardController(dashboardService, quoteService)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.GET("/user/profile", authController.Me)
	protected.PUT("/user/goals", authController.UpdateGoals)
	protected.POST("/user/profile-picture", authController.UploadProfilePicture)
	protected.POST("/check-in", checkInController.Create)
	protected.GET("/check-in/today", checkInController.Today)
	protected.GET("/check-in/history", checkInController.History)
	protected.GET("/streak", checkInController.Streak)
	protected.GET("/quote/today", dashboardController.Quote)
	protected.GET("/analytics/weekly", analyticsController.Weekly)
	protected.GET("/analytics/monthly", analyticsController.Monthly)
	protected.GET("/dashboard", dashboardController.Dashboard)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
