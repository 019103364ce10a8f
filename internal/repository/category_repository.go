package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"daily-organizer/internal/model"
)

// CategoryRepository manages task and event categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetOrCreate returns the user's category with that name, creating it when
// missing. An empty name yields nil.
func (r *CategoryRepository) GetOrCreate(ctx context.Context, userID uint, name string) (*model.Category, error) {
	if name == "" {
		return nil, nil
	}

	var category model.Category
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND name = ?", userID, name).First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = model.Category{UserID: userID, Name: name}
		if err := db.Create(&category).Error; err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		return &category, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID uint) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, userID, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateStyle sets the display icon and color. Nil clears the value.
func (r *CategoryRepository) UpdateStyle(ctx context.Context, category *model.Category, icon, color *string) error {
	category.Icon = icon
	category.Color = color
	if err := r.db.WithContext(ctx).Model(category).
		Updates(map[string]any{"icon": icon, "color": color}).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}
