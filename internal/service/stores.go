package service

import (
	"context"

	"taskhub/internal/model"
)

// Store interfaces are declared here, on the consumer side, so tests can
// drive the services with in-memory fakes. The pgx repositories satisfy
// them.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
}

type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	ListByOwner(ctx context.Context, userID int64) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	DeleteWithTasks(ctx context.Context, id int64) error
}

type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Task, error)
	ListFiltered(ctx context.Context, projectID int64, filter model.TaskFilter) (model.TaskPage, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id int64) error
}
