package service

import (
	"context"
	"strings"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"daily-organizer/internal/engine"
	"daily-organizer/internal/model"
	"daily-organizer/internal/repository"
)

// DiaryService writes diary pages and reports the writing streak.
type DiaryService struct {
	repo *repository.DiaryRepository
	log  *zap.SugaredLogger
}

func NewDiaryService(repo *repository.DiaryRepository, log *zap.SugaredLogger) *DiaryService {
	return &DiaryService{repo: repo, log: log}
}

// Write stores body as the entry for day, replacing an earlier entry.
func (s *DiaryService) Write(ctx context.Context, user *model.User, day civil.Date, body string) (*model.DiaryEntry, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrTitleRequired
	}
	entry := model.DiaryEntry{UserID: user.ID, Day: day.String(), Body: body}
	if err := s.repo.Upsert(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Entry returns the page written on day. A missing page is
// gorm.ErrRecordNotFound.
func (s *DiaryService) Entry(ctx context.Context, user *model.User, day civil.Date) (*model.DiaryEntry, error) {
	return s.repo.FindByDay(ctx, user.ID, day.String())
}

// Streak counts consecutive diary days ending at today.
func (s *DiaryService) Streak(ctx context.Context, user *model.User, today civil.Date) (int, error) {
	days, err := s.repo.ListDays(ctx, user.ID, 0)
	if err != nil {
		return 0, err
	}
	set, invalid := engine.DateSetOf(days)
	if invalid > 0 {
		s.log.Warnw("skipping malformed diary days", "user_id", user.ID, "count", invalid)
	}
	return engine.Streak(set, today), nil
}
