package service

import (
	"context"
	"testing"
	"time"

	"taskhub/internal/model"
)

func TestCreateTaskForcesPending(t *testing.T) {
	f := newFixture(t)

	p := f.mustCreateProject(t, "alice@x.com", "P1")
	task := f.mustCreateTask(t, "alice@x.com", p.ID, "T1", nil)

	if task.Status != model.StatusPending {
		t.Errorf("new task status = %q, want PENDING", task.Status)
	}
}

func TestCreateTaskAccessPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustCreateProject(t, "alice@x.com", "P1")

	if _, err := f.tasks.Create(ctx, "bob@x.com", p.ID, "T1", "", nil); model.KindOf(err) != model.KindForbidden {
		t.Errorf("non-owner create error = %v, want forbidden", err)
	}
	if _, err := f.tasks.Create(ctx, "alice@x.com", 9999, "T1", "", nil); model.KindOf(err) != model.KindNotFound {
		t.Errorf("absent project create error = %v, want not-found", err)
	}
}

// Every task operation resolves ownership through the chain
// task → project → user; a valid token plus a guessed task id is never
// enough.
func TestTaskOwnershipTransitivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustCreateProject(t, "alice@x.com", "P1")
	task := f.mustCreateTask(t, "alice@x.com", p.ID, "T1", nil)

	title := "hijacked"
	if _, err := f.tasks.Update(ctx, "bob@x.com", task.ID, TaskUpdate{Title: &title}); model.KindOf(err) != model.KindForbidden {
		t.Errorf("non-owner update error = %v, want forbidden", err)
	}
	if err := f.tasks.Delete(ctx, "bob@x.com", task.ID); model.KindOf(err) != model.KindForbidden {
		t.Errorf("non-owner delete error = %v, want forbidden", err)
	}
	if _, err := f.tasks.List(ctx, "bob@x.com", p.ID, model.TaskFilter{Size: 5}); model.KindOf(err) != model.KindForbidden {
		t.Errorf("non-owner list error = %v, want forbidden", err)
	}

	// Nothing changed.
	got, err := f.stores.Tasks.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("task must survive: %v", err)
	}
	if got.Title != "T1" {
		t.Errorf("task title = %q, want T1", got.Title)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	p := f.mustCreateProject(t, "alice@x.com", "P1")
	task, err := f.tasks.Create(ctx, "alice@x.com", p.ID, "T1", "desc", &due)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	done := model.StatusCompleted
	updated, err := f.tasks.Update(ctx, "alice@x.com", task.ID, TaskUpdate{Status: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Status != model.StatusCompleted {
		t.Errorf("status = %q, want COMPLETED", updated.Status)
	}
	if updated.Title != "T1" || updated.Description != "desc" {
		t.Errorf("title/description must be untouched: %q/%q", updated.Title, updated.Description)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(due) {
		t.Errorf("due date must be untouched: %v", updated.DueDate)
	}
}

func TestUpdateVanishedTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustCreateProject(t, "alice@x.com", "P1")
	task := f.mustCreateTask(t, "alice@x.com", p.ID, "T1", nil)

	if err := f.tasks.Delete(ctx, "alice@x.com", task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	title := "late write"
	if _, err := f.tasks.Update(ctx, "alice@x.com", task.ID, TaskUpdate{Title: &title}); model.KindOf(err) != model.KindNotFound {
		t.Errorf("update after delete error = %v, want not-found", err)
	}
}

func TestListTasksFilterAndOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustCreateProject(t, "alice@x.com", "P1")

	day := func(d int) *time.Time {
		ts := time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}
	// Two tasks share a due date to exercise the id tie-break; one has
	// none and must sort last.
	f.mustCreateTask(t, "alice@x.com", p.ID, "Write report", day(10))
	f.mustCreateTask(t, "alice@x.com", p.ID, "Review report", day(20))
	f.mustCreateTask(t, "alice@x.com", p.ID, "Ship release", day(20))
	f.mustCreateTask(t, "alice@x.com", p.ID, "Someday cleanup", nil)

	page, err := f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Size: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalElements != 4 {
		t.Fatalf("total = %d, want 4", page.TotalElements)
	}
	gotTitles := []string{}
	for _, task := range page.Content {
		gotTitles = append(gotTitles, task.Title)
	}
	wantTitles := []string{"Review report", "Ship release", "Write report", "Someday cleanup"}
	for i, want := range wantTitles {
		if gotTitles[i] != want {
			t.Fatalf("order = %v, want %v", gotTitles, wantTitles)
		}
	}

	// Case-insensitive substring on title.
	search := "REPORT"
	page, err = f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Search: &search, Size: 10})
	if err != nil {
		t.Fatalf("search list: %v", err)
	}
	if page.TotalElements != 2 {
		t.Errorf("search total = %d, want 2", page.TotalElements)
	}

	// Status filter.
	done := model.StatusCompleted
	if _, err := f.tasks.Update(ctx, "alice@x.com", page.Content[0].ID, TaskUpdate{Status: &done}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	page, err = f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Status: &done, Size: 10})
	if err != nil {
		t.Fatalf("status list: %v", err)
	}
	if page.TotalElements != 1 {
		t.Errorf("completed total = %d, want 1", page.TotalElements)
	}
}

func TestListTasksPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustCreateProject(t, "alice@x.com", "P1")
	for i := 0; i < 7; i++ {
		f.mustCreateTask(t, "alice@x.com", p.ID, "task", nil)
	}

	first, err := f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Page: 0, Size: 3})
	if err != nil {
		t.Fatalf("page 0: %v", err)
	}
	if len(first.Content) != 3 || first.TotalElements != 7 || first.TotalPages != 3 {
		t.Errorf("page 0 = %d items, total %d, pages %d; want 3/7/3",
			len(first.Content), first.TotalElements, first.TotalPages)
	}

	last, err := f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Page: 2, Size: 3})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(last.Content) != 1 {
		t.Errorf("page 2 = %d items, want 1", len(last.Content))
	}

	// No overlap between consecutive pages: ids strictly increase across
	// the no-due-date ordering.
	if first.Content[2].ID >= last.Content[0].ID {
		t.Error("pages overlap")
	}
}

func TestListTasksValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.mustCreateProject(t, "alice@x.com", "P1")

	if _, err := f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Page: -1, Size: 5}); model.KindOf(err) != model.KindValidation {
		t.Errorf("negative page error = %v, want validation", err)
	}
	if _, err := f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Page: 0, Size: 0}); model.KindOf(err) != model.KindValidation {
		t.Errorf("zero size error = %v, want validation", err)
	}
	if _, err := f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Page: 0, Size: maxPageSize + 1}); model.KindOf(err) != model.KindValidation {
		t.Errorf("oversized page error = %v, want validation", err)
	}
	if _, err := f.tasks.List(ctx, "alice@x.com", p.ID, model.TaskFilter{Page: maxPageIndex + 1, Size: 5}); model.KindOf(err) != model.KindValidation {
		t.Errorf("out-of-range page error = %v, want validation", err)
	}

	// The extremes that would otherwise overflow the SQL OFFSET are
	// rejected before any query runs.
	huge := model.TaskFilter{Page: int(^uint(0) >> 1), Size: int(^uint(0) >> 1)}
	if _, err := f.tasks.List(ctx, "alice@x.com", p.ID, huge); model.KindOf(err) != model.KindValidation {
		t.Errorf("max-int window error = %v, want validation", err)
	}
}
