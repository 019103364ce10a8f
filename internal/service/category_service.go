package service

import (
	"context"
	"strings"

	"daily-organizer/internal/model"
	"daily-organizer/internal/repository"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, user *model.User) ([]model.Category, error) {
	return s.repo.ListByUser(ctx, user.ID)
}

// SetStyle creates the category if needed and sets its icon and color.
// Blank values clear the field.
func (s *CategoryService) SetStyle(ctx context.Context, user *model.User, name, icon, color string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTitleRequired
	}
	category, err := s.repo.GetOrCreate(ctx, user.ID, name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStyle(ctx, category, optional(icon), optional(color)); err != nil {
		return nil, err
	}
	return category, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
