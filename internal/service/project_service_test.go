package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"taskhub/internal/model"
	"taskhub/internal/service/servicetest"
)

type fixture struct {
	stores   *servicetest.Stores
	users    *UserService
	projects *ProjectService
	tasks    *TaskService
}

// newFixture builds the services over shared in-memory stores with two
// registered users, alice and bob.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := servicetest.NewStores()
	log := zap.NewNop()

	ctx := context.Background()
	for _, u := range []*model.User{
		{Email: "alice@x.com", Username: "alice", PasswordHash: "hash"},
		{Email: "bob@x.com", Username: "bob", PasswordHash: "hash"},
	} {
		if err := stores.Users.Create(ctx, u); err != nil {
			t.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	return &fixture{
		stores:   stores,
		users:    NewUserService(stores.Users, log),
		projects: NewProjectService(stores.Users, stores.Projects, stores.Tasks, log),
		tasks:    NewTaskService(stores.Users, stores.Projects, stores.Tasks, log),
	}
}

func (f *fixture) mustCreateProject(t *testing.T, email, title string) *model.ProjectView {
	t.Helper()
	view, err := f.projects.Create(context.Background(), email, title, "")
	if err != nil {
		t.Fatalf("create project %q: %v", title, err)
	}
	return view
}

func (f *fixture) mustCreateTask(t *testing.T, email string, projectID int64, title string, due *time.Time) *model.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), email, projectID, title, "", due)
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}

func TestCreateProjectOwnerAndZeroStats(t *testing.T) {
	f := newFixture(t)

	view := f.mustCreateProject(t, "alice@x.com", "P1")

	owner, _ := f.stores.Users.FindByEmail(context.Background(), "alice@x.com")
	if view.UserID != owner.ID {
		t.Errorf("project owner = %d, want %d", view.UserID, owner.ID)
	}
	if view.TotalTasks != 0 || view.CompletedTasks != 0 || view.Progress != 0.0 {
		t.Errorf("fresh project stats = %+v, want zeroes", view.ProjectStats)
	}
}

func TestGetProjectAccessPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.mustCreateProject(t, "alice@x.com", "P1")

	if _, err := f.projects.Get(ctx, "alice@x.com", view.ID); err != nil {
		t.Errorf("owner get: %v", err)
	}

	// Existing project, wrong user: forbidden, not not-found.
	if _, err := f.projects.Get(ctx, "bob@x.com", view.ID); model.KindOf(err) != model.KindForbidden {
		t.Errorf("non-owner get error = %v, want forbidden", err)
	}

	// Absent project: not-found for everyone, owner or not.
	if _, err := f.projects.Get(ctx, "alice@x.com", 9999); model.KindOf(err) != model.KindNotFound {
		t.Errorf("absent get error = %v, want not-found", err)
	}
}

func TestUpdateProjectPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.projects.Create(ctx, "alice@x.com", "P1", "original description")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTitle := "P1 renamed"
	updated, err := f.projects.Update(ctx, "alice@x.com", view.ID, &newTitle, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "P1 renamed" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Description != "original description" {
		t.Errorf("nil description must leave the stored value: %q", updated.Description)
	}

	if _, err := f.projects.Update(ctx, "bob@x.com", view.ID, &newTitle, nil); model.KindOf(err) != model.KindForbidden {
		t.Errorf("non-owner update error = %v, want forbidden", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.mustCreateProject(t, "alice@x.com", "P1")
	t1 := f.mustCreateTask(t, "alice@x.com", view.ID, "T1", nil)
	t2 := f.mustCreateTask(t, "alice@x.com", view.ID, "T2", nil)

	if err := f.projects.Delete(ctx, "alice@x.com", view.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.projects.Get(ctx, "alice@x.com", view.ID); model.KindOf(err) != model.KindNotFound {
		t.Errorf("deleted project get error = %v, want not-found", err)
	}
	for _, id := range []int64{t1.ID, t2.ID} {
		if _, err := f.stores.Tasks.FindByID(ctx, id); model.KindOf(err) != model.KindNotFound {
			t.Errorf("task %d must be cascade-deleted, got %v", id, err)
		}
	}
}

func TestDeleteProjectAccessPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view := f.mustCreateProject(t, "alice@x.com", "P1")

	if err := f.projects.Delete(ctx, "bob@x.com", view.ID); model.KindOf(err) != model.KindForbidden {
		t.Errorf("non-owner delete error = %v, want forbidden", err)
	}
	if err := f.projects.Delete(ctx, "alice@x.com", 9999); model.KindOf(err) != model.KindNotFound {
		t.Errorf("absent delete error = %v, want not-found", err)
	}
}

func TestListProjectsWithStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p1 := f.mustCreateProject(t, "alice@x.com", "P1")
	f.mustCreateProject(t, "bob@x.com", "B1")

	task := f.mustCreateTask(t, "alice@x.com", p1.ID, "T1", nil)
	done := model.StatusCompleted
	if _, err := f.tasks.Update(ctx, "alice@x.com", task.ID, TaskUpdate{Status: &done}); err != nil {
		t.Fatalf("complete task: %v", err)
	}
	f.mustCreateTask(t, "alice@x.com", p1.ID, "T2", nil)

	views, err := f.projects.List(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("alice sees %d projects, want 1 (only her own)", len(views))
	}
	got := views[0]
	if got.TotalTasks != 2 || got.CompletedTasks != 1 || got.Progress != 50.0 {
		t.Errorf("stats = %+v, want 2/1/50.0", got.ProjectStats)
	}
}
