package main

import (
	"time"

	"github.com/consigliere/consigliere/config"
	"github.com/consigliere/consigliere/models"
	"github.com/consigliere/consigliere/routes"
	"github.com/consigliere/consigliere/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.CheckIn{}, &models.Streak{}, &models.DailyQuote{})

	r := routes.SetupRouter(db)

	// Prune avatar files left behind by replaced uploads (best-effort)
	utils.StartAvatarCleaner(time.Hour)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
