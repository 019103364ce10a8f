package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"daily-organizer/internal/model"
)

// DiaryRepository stores one diary entry per user and day.
type DiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

// Upsert writes the entry, replacing the body of an existing entry for the
// same day.
func (r *DiaryRepository) Upsert(ctx context.Context, entry *model.DiaryEntry) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("upsert diary entry: %w", err)
	}
	return nil
}

// ListDays returns the stored day strings, newest first, limited to limit
// rows when limit > 0.
func (r *DiaryRepository) ListDays(ctx context.Context, userID uint, limit int) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&model.DiaryEntry{}).
		Where("user_id = ?", userID).
		Order("day DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var days []string
	if err := q.Pluck("day", &days).Error; err != nil {
		return nil, fmt.Errorf("list diary days: %w", err)
	}
	return days, nil
}

func (r *DiaryRepository) FindByDay(ctx context.Context, userID uint, day string) (*model.DiaryEntry, error) {
	var entry model.DiaryEntry
	if err := r.db.WithContext(ctx).Where("user_id = ? AND day = ?", userID, day).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
