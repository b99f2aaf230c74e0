package service

import (
	"taskhub/internal/model"
)

// Ownership is the only authorization axis in the system: a user owns a
// project, and owns every task under it through the project. These checks
// are pure so they can be exercised without a store, and every operation
// runs them only after the target has been confirmed to exist. A non-owner
// probing a valid id therefore gets forbidden, never not-found.

// OwnsProject reports whether u is the owner of p.
func OwnsProject(p *model.Project, u *model.User) bool {
	return p.UserID == u.ID
}

// OwnsTask resolves a task's effective owner through its project. The
// caller supplies the task's project; a client-side owner claim is never
// trusted.
func OwnsTask(t *model.Task, p *model.Project, u *model.User) bool {
	return t.ProjectID == p.ID && OwnsProject(p, u)
}
