// Package servicetest provides in-memory store implementations for tests.
// They mirror the behavior of the pgx repositories: domain not-found and
// already-exists errors, the unique email index, the cascading project
// delete and the due-date-descending, id-ascending task ordering.
package servicetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"taskhub/internal/model"
)

type memDB struct {
	mu       sync.Mutex
	nextID   int64
	users    map[int64]model.User
	projects map[int64]model.Project
	tasks    map[int64]model.Task
}

func (d *memDB) id() int64 {
	d.nextID++
	return d.nextID
}

// Stores bundles the three fake stores over one shared dataset.
type Stores struct {
	Users    *UserStore
	Projects *ProjectStore
	Tasks    *TaskStore
}

func NewStores() *Stores {
	db := &memDB{
		users:    make(map[int64]model.User),
		projects: make(map[int64]model.Project),
		tasks:    make(map[int64]model.Task),
	}
	return &Stores{
		Users:    &UserStore{db: db},
		Projects: &ProjectStore{db: db},
		Tasks:    &TaskStore{db: db},
	}
}

type UserStore struct {
	db *memDB
}

func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.users {
		if existing.Email == u.Email {
			return model.NewAlreadyExists("email already registered")
		}
	}
	u.ID = s.db.id()
	s.db.users[u.ID] = *u
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, model.NewNotFound("user not found")
}

func (s *UserStore) FindByID(_ context.Context, id int64) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, model.NewNotFound("user not found")
	}
	return &u, nil
}

func (s *UserStore) UpdateUsername(_ context.Context, id int64, username string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return model.NewNotFound("user not found")
	}
	u.Username = username
	s.db.users[id] = u
	return nil
}

type ProjectStore struct {
	db *memDB
}

func (s *ProjectStore) Insert(_ context.Context, p *model.Project) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p.ID = s.db.id()
	s.db.projects[p.ID] = *p
	return nil
}

func (s *ProjectStore) FindByID(_ context.Context, id int64) (*model.Project, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.projects[id]
	if !ok {
		return nil, model.NewNotFound("project not found")
	}
	return &p, nil
}

func (s *ProjectStore) ListByOwner(_ context.Context, userID int64) ([]model.Project, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	projects := []model.Project{}
	for _, p := range s.db.projects {
		if p.UserID == userID {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return projects, nil
}

func (s *ProjectStore) Update(_ context.Context, p *model.Project) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.projects[p.ID]; !ok {
		return model.NewNotFound("project not found")
	}
	s.db.projects[p.ID] = *p
	return nil
}

func (s *ProjectStore) DeleteWithTasks(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.projects[id]; !ok {
		return model.NewNotFound("project not found")
	}
	for taskID, t := range s.db.tasks {
		if t.ProjectID == id {
			delete(s.db.tasks, taskID)
		}
	}
	delete(s.db.projects, id)
	return nil
}

type TaskStore struct {
	db *memDB
}

func (s *TaskStore) Insert(_ context.Context, t *model.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t.ID = s.db.id()
	s.db.tasks[t.ID] = *t
	return nil
}

func (s *TaskStore) FindByID(_ context.Context, id int64) (*model.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, ok := s.db.tasks[id]
	if !ok {
		return nil, model.NewNotFound("task not found")
	}
	return &t, nil
}

func (s *TaskStore) ListByProject(_ context.Context, projectID int64) ([]model.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	return s.tasksLocked(projectID, nil, nil), nil
}

func (s *TaskStore) ListFiltered(_ context.Context, projectID int64, filter model.TaskFilter) (model.TaskPage, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	tasks := s.tasksLocked(projectID, filter.Search, filter.Status)
	total := int64(len(tasks))

	totalPages := len(tasks) / filter.Size
	if len(tasks)%filter.Size != 0 {
		totalPages++
	}

	start := filter.Page * filter.Size
	if start > len(tasks) {
		start = len(tasks)
	}
	end := start + filter.Size
	if end > len(tasks) {
		end = len(tasks)
	}

	return model.TaskPage{
		Content:       tasks[start:end],
		Page:          filter.Page,
		Size:          filter.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func (s *TaskStore) Update(_ context.Context, t *model.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tasks[t.ID]; !ok {
		return model.NewNotFound("task not found")
	}
	s.db.tasks[t.ID] = *t
	return nil
}

func (s *TaskStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tasks[id]; !ok {
		return model.NewNotFound("task not found")
	}
	delete(s.db.tasks, id)
	return nil
}

// tasksLocked filters and orders like the SQL listing: due date descending
// with nulls last, id ascending as the tie-break.
func (s *TaskStore) tasksLocked(projectID int64, search *string, status *model.TaskStatus) []model.Task {
	tasks := []model.Task{}
	for _, t := range s.db.tasks {
		if t.ProjectID != projectID {
			continue
		}
		if search != nil && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(*search)) {
			continue
		}
		if status != nil && t.Status != *status {
			continue
		}
		tasks = append(tasks, t)
	}

	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.ID < b.ID
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.After(*b.DueDate)
		}
		return a.ID < b.ID
	})
	return tasks
}
