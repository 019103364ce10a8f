package model

import "time"

// Supplement tracks a consumable and how fast it is used up.
// Both TotalServings and ServingsPerDay are optional.
type Supplement struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         uint   `gorm:"index;index:idx_user_supplement_name,unique"`
	Name           string `gorm:"index:idx_user_supplement_name,unique"`
	TotalServings  *float64
	ServingsPerDay *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
