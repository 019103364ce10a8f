package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"daily-organizer/internal/model"
)

// EventRepository handles calendar events.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// ListSince returns events starting at or after from.
func (r *EventRepository) ListSince(ctx context.Context, userID uint, from time.Time) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND start_at >= ?", userID, from).
		Order("start_at ASC").
		Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Delete(ctx context.Context, userID, eventID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, eventID).Delete(&model.Event{})
	if res.Error != nil {
		return fmt.Errorf("delete event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
