package service

import (
	"testing"

	"taskhub/internal/model"
)

func tasksWithStatuses(statuses ...model.TaskStatus) []model.Task {
	tasks := make([]model.Task, len(statuses))
	for i, s := range statuses {
		tasks[i] = model.Task{ID: int64(i + 1), Status: s}
	}
	return tasks
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name          string
		tasks         []model.Task
		wantTotal     int
		wantCompleted int
		wantProgress  float64
	}{
		{"no tasks", nil, 0, 0, 0.0},
		{
			"one of four completed",
			tasksWithStatuses(model.StatusCompleted, model.StatusPending, model.StatusPending, model.StatusPending),
			4, 1, 25.0,
		},
		{
			"none completed",
			tasksWithStatuses(model.StatusPending, model.StatusPending),
			2, 0, 0.0,
		},
		{
			"all completed",
			tasksWithStatuses(model.StatusCompleted, model.StatusCompleted, model.StatusCompleted),
			3, 3, 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := ComputeStats(tt.tasks)
			if stats.TotalTasks != tt.wantTotal {
				t.Errorf("TotalTasks = %d, want %d", stats.TotalTasks, tt.wantTotal)
			}
			if stats.CompletedTasks != tt.wantCompleted {
				t.Errorf("CompletedTasks = %d, want %d", stats.CompletedTasks, tt.wantCompleted)
			}
			if stats.Progress != tt.wantProgress {
				t.Errorf("Progress = %v, want %v", stats.Progress, tt.wantProgress)
			}
		})
	}
}
