package model

import "time"

// User is an organizer owner, identified by their Telegram account.
// Timezone is an IANA name; empty means the server default.
type User struct {
	ID             uint  `gorm:"primaryKey"`
	TelegramID     int64 `gorm:"uniqueIndex"`
	FirstName      string
	LastName       string
	Username       string
	Timezone       string
	ReportsEnabled bool `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Location resolves the user's timezone, falling back to def when the name is
// empty or unknown.
func (u User) Location(def *time.Location) *time.Location {
	if u.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return def
	}
	return loc
}
