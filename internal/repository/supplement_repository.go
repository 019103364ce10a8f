package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"daily-organizer/internal/model"
)

// SupplementRepository tracks consumable inventory.
type SupplementRepository struct {
	db *gorm.DB
}

func NewSupplementRepository(db *gorm.DB) *SupplementRepository {
	return &SupplementRepository{db: db}
}

// Upsert creates the supplement or updates stock and rate of the existing
// one with the same name.
func (r *SupplementRepository) Upsert(ctx context.Context, s *model.Supplement) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_servings", "servings_per_day", "updated_at"}),
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("upsert supplement: %w", err)
	}
	return nil
}

func (r *SupplementRepository) ListByUser(ctx context.Context, userID uint) ([]model.Supplement, error) {
	var items []model.Supplement
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list supplements: %w", err)
	}
	return items, nil
}

func (r *SupplementRepository) Delete(ctx context.Context, userID uint, name string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).Delete(&model.Supplement{})
	if res.Error != nil {
		return fmt.Errorf("delete supplement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
