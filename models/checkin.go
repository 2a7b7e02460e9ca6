package models

import "time"

// CheckIn is one user's daily learning log. The composite unique index is the
// source of the once-per-day guarantee; rows are immutable after creation.
type CheckIn struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_checkins_user_date" json:"user_id"`
	CheckInDate   time.Time `gorm:"type:date;not null;uniqueIndex:idx_checkins_user_date" json:"check_in_date"`
	PagesRead     int       `gorm:"not null" json:"pages_read"`
	VideosWatched int       `gorm:"not null" json:"videos_watched"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}
