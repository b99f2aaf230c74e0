package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskhub/internal/model"
)

// TaskUpdate carries a partial update; nil fields leave the stored value
// untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *model.TaskStatus
}

type TaskService struct {
	users    UserStore
	projects ProjectStore
	tasks    TaskStore
	logger   *zap.Logger
}

func NewTaskService(users UserStore, projects ProjectStore, tasks TaskStore, logger *zap.Logger) *TaskService {
	return &TaskService{
		users:    users,
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}
}

func (s *TaskService) requester(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, NormalizeEmail(email))
}

// loadOwnedProject enforces the access policy on the task's parent:
// existence first, ownership second.
func (s *TaskService) loadOwnedProject(ctx context.Context, email string, projectID int64) (*model.Project, error) {
	p, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	u, err := s.requester(ctx, email)
	if err != nil {
		return nil, err
	}
	if !OwnsProject(p, u) {
		return nil, model.NewForbidden("not the owner of this project")
	}
	return p, nil
}

// loadOwnedTask walks the ownership chain task → project → user.
func (s *TaskService) loadOwnedTask(ctx context.Context, email string, taskID int64) (*model.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadOwnedProject(ctx, email, t.ProjectID); err != nil {
		return nil, err
	}
	return t, nil
}

// Create adds a task under a project the requester owns. Status is always
// PENDING regardless of what the client sent.
func (s *TaskService) Create(ctx context.Context, email string, projectID int64, title, description string, dueDate *time.Time) (*model.Task, error) {
	if _, err := s.loadOwnedProject(ctx, email, projectID); err != nil {
		return nil, err
	}

	t := &model.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      model.StatusPending,
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Caps on the page window. Besides keeping result sets bounded, they keep
// page*size well inside int64 range for the SQL OFFSET.
const (
	maxPageSize  = 100
	maxPageIndex = 1_000_000
)

// List returns one page of a project's tasks, filtered by optional title
// substring and status.
func (s *TaskService) List(ctx context.Context, email string, projectID int64, filter model.TaskFilter) (model.TaskPage, error) {
	if filter.Page < 0 {
		return model.TaskPage{}, model.NewValidation("page must not be negative")
	}
	if filter.Page > maxPageIndex {
		return model.TaskPage{}, model.NewValidation("page is out of range")
	}
	if filter.Size <= 0 {
		return model.TaskPage{}, model.NewValidation("size must be positive")
	}
	if filter.Size > maxPageSize {
		return model.TaskPage{}, model.NewValidation("size must be at most 100")
	}

	if _, err := s.loadOwnedProject(ctx, email, projectID); err != nil {
		return model.TaskPage{}, err
	}

	return s.tasks.ListFiltered(ctx, projectID, filter)
}

func (s *TaskService) Update(ctx context.Context, email string, taskID int64, upd TaskUpdate) (*model.Task, error) {
	t, err := s.loadOwnedTask(ctx, email, taskID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.DueDate != nil {
		t.DueDate = upd.DueDate
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, email string, taskID int64) error {
	t, err := s.loadOwnedTask(ctx, email, taskID)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, t.ID)
}
