package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"daily-organizer/internal/model"
)

// UserRepository handles CRUD for users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromTelegram finds or creates a user based on TelegramID and updates basic profile info.
func (r *UserRepository) UpsertFromTelegram(ctx context.Context, telegramID int64, firstName, lastName, username string) (*model.User, error) {
	var user model.User
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&user).Error
	switch {
	case err == nil:
		updates := map[string]any{
			"first_name": firstName,
			"last_name":  lastName,
			"username":   username,
		}
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			TelegramID:     telegramID,
			FirstName:      firstName,
			LastName:       lastName,
			Username:       username,
			ReportsEnabled: true,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func (r *UserRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListReportRecipients returns users who have not switched reports off.
func (r *UserRepository) ListReportRecipients(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Where("reports_enabled = ?", true).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) SetTimezone(ctx context.Context, user *model.User, tz string) error {
	user.Timezone = tz
	if err := r.db.WithContext(ctx).Model(user).Update("timezone", tz).Error; err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}
	return nil
}

func (r *UserRepository) SetReportsEnabled(ctx context.Context, user *model.User, enabled bool) error {
	user.ReportsEnabled = enabled
	if err := r.db.WithContext(ctx).Model(user).Update("reports_enabled", enabled).Error; err != nil {
		return fmt.Errorf("set reports: %w", err)
	}
	return nil
}
