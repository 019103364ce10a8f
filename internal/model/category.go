package model

import "time"

// Category groups tasks and events by area (work, health, study, etc.).
// Icon and Color are display hints chosen by the user.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;index:idx_user_category_name,unique"`
	Name      string `gorm:"index:idx_user_category_name,unique"`
	Icon      *string
	Color     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:CategoryID"`
}
