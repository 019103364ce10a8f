package model

import "time"

// TaskStatus is stored as text. Rows may carry values outside the known set;
// readers must tolerate them.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is stored as text, same tolerance rules as TaskStatus.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow, PriorityNone:
		return true
	}
	return false
}

// Task represents a single item in the planner.
// CompletedAt is set if and only if Status is StatusCompleted.
type Task struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index"`
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"foreignKey:CategoryID"`
	Title       string
	Description *string
	Status      TaskStatus `gorm:"index;default:pending"`
	Priority    Priority   `gorm:"default:none"`
	DueAt       *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
