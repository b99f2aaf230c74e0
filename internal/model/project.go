package model

import "time"

// Project references its owner by id only. Ownership never changes after
// creation.
type Project struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectStats is the derived completion view of one project.
type ProjectStats struct {
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	Progress       float64 `json:"progress"`
}

// ProjectView is what the API returns: the project, its tasks and the
// computed stats.
type ProjectView struct {
	Project
	ProjectStats
	Tasks []Task `json:"tasks"`
}
