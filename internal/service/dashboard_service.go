package service

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
)

// Dashboard is one derivation pass over a user's records. Every field was
// computed against the same Now.
type Dashboard struct {
	User        model.User
	Now         time.Time
	Today       civil.Date
	SortKey     engine.SortKey
	Tasks       engine.Buckets
	Events      []engine.ClassifiedEvent
	DiaryStreak int
	Supplements []SupplementForecast
}

// DashboardService loads a user's records and runs them through the engine.
type DashboardService struct {
	tasks       *TaskService
	events      *EventService
	diary       *DiaryService
	supplements *SupplementService
	loc         *time.Location
}

func NewDashboardService(tasks *TaskService, events *EventService, diary *DiaryService, supplements *SupplementService, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{tasks: tasks, events: events, diary: diary, supplements: supplements, loc: loc}
}

// Build derives the dashboard at now, shifted into the user's timezone.
// Tasks inside each bucket follow key.
func (s *DashboardService) Build(ctx context.Context, user model.User, now time.Time, key engine.SortKey) (*Dashboard, error) {
	now = now.In(user.Location(s.loc))
	today := civil.DateOf(now)

	tasks, err := s.tasks.List(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	events, err := s.events.Agenda(ctx, &user, now)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	streak, err := s.diary.Streak(ctx, &user, today)
	if err != nil {
		return nil, fmt.Errorf("load diary: %w", err)
	}
	forecasts, err := s.supplements.Forecasts(ctx, &user, today)
	if err != nil {
		return nil, fmt.Errorf("load supplements: %w", err)
	}

	return &Dashboard{
		User:        user,
		Now:         now,
		Today:       today,
		SortKey:     key,
		Tasks:       engine.Aggregate(engine.SortTasks(tasks, key), now),
		Events:      engine.ClassifyEvents(events, now),
		DiaryStreak: streak,
		Supplements: forecasts,
	}, nil
}
