package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"daily-organizer/internal/bot"
	"daily-organizer/internal/config"
	"daily-organizer/internal/repository"
	"daily-organizer/internal/service"
)

// app holds the wired storage and service layers shared by the commands.
type app struct {
	db       *gorm.DB
	loc      *time.Location
	services bot.Services
}

func newApp(cfg config.Config, log *zap.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	supplementRepo := repository.NewSupplementRepository(db)

	taskSvc := service.NewTaskService(taskRepo, categoryRepo)
	eventSvc := service.NewEventService(eventRepo, categoryRepo)
	diarySvc := service.NewDiaryService(diaryRepo, log.Named("diary").Sugar())
	supplementSvc := service.NewSupplementService(supplementRepo)
	dashboards := service.NewDashboardService(taskSvc, eventSvc, diarySvc, supplementSvc, loc)

	return &app{
		db:  db,
		loc: loc,
		services: bot.Services{
			Users:       userRepo,
			Categories:  service.NewCategoryService(categoryRepo),
			Tasks:       taskSvc,
			Events:      eventSvc,
			Diary:       diarySvc,
			Supplements: supplementSvc,
			Dashboards:  dashboards,
			Reminders:   service.NewReminderService(dashboards),
		},
	}, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
