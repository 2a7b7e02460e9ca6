package models

import "time"

// DailyQuote is the single quote assigned to a calendar date, shared by all users.
type DailyQuote struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Date      time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`
	QuoteText string    `gorm:"type:text;not null" json:"quote_text"`
	Author    string    `gorm:"size:255" json:"author"`
	CreatedAt time.Time `json:"-"`
}
