package service

import (
	"taskhub/internal/model"
)

// ComputeStats derives the completion view of a project from its loaded
// tasks. Pure and deterministic.
func ComputeStats(tasks []model.Task) model.ProjectStats {
	total := len(tasks)

	completed := 0
	for _, t := range tasks {
		if t.Status == model.StatusCompleted {
			completed++
		}
	}

	progress := 0.0
	if total > 0 {
		progress = float64(completed) / float64(total) * 100
	}

	return model.ProjectStats{
		TotalTasks:     total,
		CompletedTasks: completed,
		Progress:       progress,
	}
}
