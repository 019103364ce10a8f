package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"daily-organizer/internal/model"
	"daily-organizer/internal/repository"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    model.Priority
	DueAt       *time.Time
}

// TaskService wraps task-related business logic. It is the only writer of
// Task.Status and keeps CompletedAt in step with it.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo}
}

func (s *TaskService) CreateTask(ctx context.Context, user *model.User, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityNone
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	var category *model.Category
	if name := strings.TrimSpace(input.Category); name != "" {
		var err error
		category, err = s.categoryRepo.GetOrCreate(ctx, user.ID, name)
		if err != nil {
			return nil, err
		}
	}

	task := model.Task{
		UserID:   user.ID,
		Title:    title,
		Status:   model.StatusPending,
		Priority: priority,
		DueAt:    input.DueAt,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		task.Description = &desc
	}
	if category != nil {
		task.CategoryID = &category.ID
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	task.Category = category
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, user *model.User) ([]model.Task, error) {
	return s.taskRepo.ListByUser(ctx, user.ID)
}

func (s *TaskService) GetTask(ctx context.Context, user *model.User, taskID uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, user.ID, taskID)
}

// SetStatus moves a task to status. Completing stamps CompletedAt with at;
// any other status clears it.
func (s *TaskService) SetStatus(ctx context.Context, user *model.User, taskID uint, status model.TaskStatus, at time.Time) (*model.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}
	applyStatus(task, status, at)
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func applyStatus(task *model.Task, status model.TaskStatus, at time.Time) {
	if task.Status == status && (status != model.StatusCompleted || task.CompletedAt != nil) {
		return
	}
	task.Status = status
	if status == model.StatusCompleted {
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}
}

// CompleteTask marks a task as done at completedAt.
func (s *TaskService) CompleteTask(ctx context.Context, user *model.User, taskID uint, completedAt time.Time) (*model.Task, error) {
	return s.SetStatus(ctx, user, taskID, model.StatusCompleted, completedAt)
}

// StartTask moves a task to in progress.
func (s *TaskService) StartTask(ctx context.Context, user *model.User, taskID uint, at time.Time) (*model.Task, error) {
	return s.SetStatus(ctx, user, taskID, model.StatusInProgress, at)
}

// DeleteTask removes a task completely.
func (s *TaskService) DeleteTask(ctx context.Context, user *model.User, taskID uint) error {
	return s.taskRepo.Delete(ctx, user.ID, taskID)
}

// ParsePriority maps user input to a priority. Blank input is PriorityNone.
func ParsePriority(raw string) (model.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none", "-":
		return model.PriorityNone, nil
	case "high", "h", "!!!":
		return model.PriorityHigh, nil
	case "medium", "med", "m", "!!":
		return model.PriorityMedium, nil
	case "low", "l", "!":
		return model.PriorityLow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
}
