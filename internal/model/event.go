package model

import "time"

// Event is a calendar entry. Events are never completed, only compared
// against the current time.
type Event struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index"`
	CategoryID *uint     `gorm:"index"`
	Category   *Category `gorm:"foreignKey:CategoryID"`
	Title      string
	StartAt    time.Time `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
