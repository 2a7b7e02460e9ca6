package utils

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/consigliere/consigliere/config"
	"github.com/consigliere/consigliere/models"
)

// StartAvatarCleaner launches a background goroutine that periodically deletes
// files in the upload directory no longer referenced by any user's profile
// picture. Best-effort; failures are logged and retried next round.
func StartAvatarCleaner(interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			cfg := config.Get()
			entries, err := os.ReadDir(cfg.UploadDir)
			if err != nil {
				continue
			}

			var refs []string
			if err := db.Model(&models.User{}).Where("profile_picture <> ''").Pluck("profile_picture", &refs).Error; err != nil {
				log.Printf("avatar cleaner query failed: %v", err)
				continue
			}
			referenced := make(map[string]bool, len(refs))
			for _, r := range refs {
				referenced[r] = true
			}

			for _, entry := range entries {
				if entry.IsDir() || referenced[entry.Name()] {
					continue
				}
				// Leave fresh files alone: an upload may not be linked yet.
				if info, err := entry.Info(); err != nil || time.Since(info.ModTime()) < time.Hour {
					continue
				}
				if err := os.Remove(filepath.Join(cfg.UploadDir, entry.Name())); err != nil {
					log.Printf("avatar cleaner remove failed: %v", err)
				}
			}
		}
	}()
}
