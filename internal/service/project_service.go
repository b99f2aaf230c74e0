package service

import (
	"context"

	"go.uber.org/zap"

	"taskhub/internal/model"
)

type ProjectService struct {
	users    UserStore
	projects ProjectStore
	tasks    TaskStore
	logger   *zap.Logger
}

func NewProjectService(users UserStore, projects ProjectStore, tasks TaskStore, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		users:    users,
		projects: projects,
		tasks:    tasks,
		logger:   logger,
	}
}

// requester resolves the authenticated identity to its user row.
func (s *ProjectService) requester(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, NormalizeEmail(email))
}

// loadOwned fetches a project and enforces the access policy: existence
// first, ownership second.
func (s *ProjectService) loadOwned(ctx context.Context, email string, id int64) (*model.Project, *model.User, error) {
	p, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.requester(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if !OwnsProject(p, u) {
		return nil, nil, model.NewForbidden("not the owner of this project")
	}
	return p, u, nil
}

func (s *ProjectService) view(ctx context.Context, p *model.Project) (*model.ProjectView, error) {
	tasks, err := s.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &model.ProjectView{
		Project:      *p,
		ProjectStats: ComputeStats(tasks),
		Tasks:        tasks,
	}, nil
}

// Create makes the requester the owner. Any authenticated identity may
// create a project.
func (s *ProjectService) Create(ctx context.Context, email, title, description string) (*model.ProjectView, error) {
	u, err := s.requester(ctx, email)
	if err != nil {
		return nil, err
	}

	p := &model.Project{
		UserID:      u.ID,
		Title:       title,
		Description: description,
	}
	if err := s.projects.Insert(ctx, p); err != nil {
		return nil, err
	}

	return &model.ProjectView{Project: *p, Tasks: []model.Task{}}, nil
}

// List returns every project the requester owns, each with computed stats.
func (s *ProjectService) List(ctx context.Context, email string) ([]model.ProjectView, error) {
	u, err := s.requester(ctx, email)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.ListByOwner(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	views := make([]model.ProjectView, 0, len(projects))
	for i := range projects {
		v, err := s.view(ctx, &projects[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (s *ProjectService) Get(ctx context.Context, email string, id int64) (*model.ProjectView, error) {
	p, _, err := s.loadOwned(ctx, email, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

// Update applies a partial update: nil fields leave the stored value
// untouched.
func (s *ProjectService) Update(ctx context.Context, email string, id int64, title, description *string) (*model.ProjectView, error) {
	p, _, err := s.loadOwned(ctx, email, id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		p.Title = *title
	}
	if description != nil {
		p.Description = *description
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

// Delete removes the project and cascades to its tasks.
func (s *ProjectService) Delete(ctx context.Context, email string, id int64) error {
	if _, _, err := s.loadOwned(ctx, email, id); err != nil {
		return err
	}
	return s.projects.DeleteWithTasks(ctx, id)
}
