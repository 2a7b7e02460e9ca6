package models

import "time"

// Streak is a per-user cache of the consecutive-day computation. The check-in
// rows remain the ground truth; this row can be rebuilt from them at any time.
type Streak struct {
	ID              uint       `gorm:"primaryKey" json:"-"`
	UserID          uint       `gorm:"uniqueIndex;not null" json:"-"`
	CurrentStreak   int        `gorm:"default:0;not null" json:"current_streak"`
	LongestStreak   int        `gorm:"default:0;not null" json:"longest_streak"`
	LastCheckInDate *time.Time `gorm:"type:date" json:"last_check_in_date"`
	UpdatedAt       time.Time  `json:"-"`
}
