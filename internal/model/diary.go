package model

import "time"

// DiaryEntry is one diary page. Day is a calendar date in YYYY-MM-DD form,
// unique per user.
type DiaryEntry struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;index:idx_user_diary_day,unique"`
	Day       string `gorm:"size:10;index:idx_user_diary_day,unique"`
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
