package service

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/civil"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
	"daily-organizer/internal/repository"
)

var ErrInvalidAmount = errors.New("servings must be non-negative and the daily rate positive")

// SupplementForecast pairs a supplement with its run-out projection.
type SupplementForecast struct {
	Supplement model.Supplement
	engine.Projection
}

// SupplementService manages supplement stock.
type SupplementService struct {
	repo *repository.SupplementRepository
}

func NewSupplementService(repo *repository.SupplementRepository) *SupplementService {
	return &SupplementService{repo: repo}
}

// Set records the current stock and daily rate. Either number may be nil
// when unknown.
func (s *SupplementService) Set(ctx context.Context, user *model.User, name string, total, perDay *float64) (*model.Supplement, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTitleRequired
	}
	if (total != nil && *total < 0) || (perDay != nil && *perDay <= 0) {
		return nil, ErrInvalidAmount
	}
	item := model.Supplement{UserID: user.ID, Name: name, TotalServings: total, ServingsPerDay: perDay}
	if err := s.repo.Upsert(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *SupplementService) Remove(ctx context.Context, user *model.User, name string) error {
	return s.repo.Delete(ctx, user.ID, strings.TrimSpace(name))
}

// Forecasts projects every supplement from today, most urgent first.
func (s *SupplementService) Forecasts(ctx context.Context, user *model.User, today civil.Date) ([]SupplementForecast, error) {
	items, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return ForecastAll(items, today), nil
}

// ForecastAll is the pure part of Forecasts.
func ForecastAll(items []model.Supplement, today civil.Date) []SupplementForecast {
	out := make([]SupplementForecast, 0, len(items))
	for _, item := range items {
		out = append(out, SupplementForecast{
			Supplement: item,
			Projection: engine.Forecast(item.TotalServings, item.ServingsPerDay, today),
		})
	}
	return engine.SortByTier(out, func(f SupplementForecast) engine.Tier { return f.Tier })
}
