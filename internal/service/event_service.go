package service

import (
	"context"
	"strings"
	"time"

	"daily-organizer/internal/model"
	"daily-organizer/internal/repository"
)

// EventInput represents data required to create an event.
type EventInput struct {
	Title    string
	Category string
	StartAt  time.Time
}

// EventService manages calendar events.
type EventService struct {
	eventRepo    *repository.EventRepository
	categoryRepo *repository.CategoryRepository
}

func NewEventService(eventRepo *repository.EventRepository, categoryRepo *repository.CategoryRepository) *EventService {
	return &EventService{eventRepo: eventRepo, categoryRepo: categoryRepo}
}

func (s *EventService) CreateEvent(ctx context.Context, user *model.User, input EventInput) (*model.Event, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	event := model.Event{UserID: user.ID, Title: title, StartAt: input.StartAt}
	if name := strings.TrimSpace(input.Category); name != "" {
		category, err := s.categoryRepo.GetOrCreate(ctx, user.ID, name)
		if err != nil {
			return nil, err
		}
		event.CategoryID = &category.ID
		event.Category = category
	}
	if err := s.eventRepo.Create(ctx, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// Agenda returns events starting on or after the start of now's calendar
// day, so events earlier today are still listed.
func (s *EventService) Agenda(ctx context.Context, user *model.User, now time.Time) ([]model.Event, error) {
	y, m, d := now.Date()
	return s.eventRepo.ListSince(ctx, user.ID, time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}

// DeleteEvent removes one of the user's events. An unknown id is
// gorm.ErrRecordNotFound.
func (s *EventService) DeleteEvent(ctx context.Context, user *model.User, eventID uint) error {
	return s.eventRepo.Delete(ctx, user.ID, eventID)
}
