package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// likeEscaper neutralizes ILIKE metacharacters so a search term matches
// literally. Backslash is the default escape character in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	defer observe("insert", "tasks")()

	r.logger.Debug("Inserting task",
		zap.Int64("project_id", t.ProjectID),
		zap.String("title", t.Title),
		zap.String("status", string(t.Status)),
	)

	query := `
        INSERT INTO tasks (project_id, title, description, due_date, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.ProjectID,
		t.Title,
		t.Description,
		t.DueDate,
		t.Status,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err), zap.Int64("project_id", t.ProjectID))
		return err
	}

	r.logger.Info("Task inserted",
		zap.Int64("task_id", t.ID),
		zap.Int64("project_id", t.ProjectID),
	)
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	defer observe("select", "tasks")()

	query := `
        SELECT id, project_id, title, description, due_date, status, created_at
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound("task not found")
		}
		r.logger.Error("Failed to query task", zap.Error(err), zap.Int64("task_id", id))
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	defer observe("select", "tasks")()

	query := `
        SELECT id, project_id, title, description, due_date, status, created_at
        FROM tasks
        WHERE project_id = $1
        ORDER BY due_date DESC NULLS LAST, id ASC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err), zap.Int64("project_id", projectID))
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListFiltered returns one page of a project's tasks. Ordering is due date
// descending with id ascending as the tie-break, so pages stay stable when
// due dates collide.
func (r *TaskRepository) ListFiltered(ctx context.Context, projectID int64, filter model.TaskFilter) (model.TaskPage, error) {
	defer observe("select", "tasks")()

	var search *string
	if filter.Search != nil && *filter.Search != "" {
		s := "%" + escapeLike(*filter.Search) + "%"
		search = &s
	}
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	countQuery := `
        SELECT COUNT(*)
        FROM tasks
        WHERE project_id = $1
          AND ($2::text IS NULL OR title ILIKE $2)
          AND ($3::text IS NULL OR status = $3)
    `
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, projectID, search, status).Scan(&total); err != nil {
		r.logger.Error("Failed to count tasks", zap.Error(err), zap.Int64("project_id", projectID))
		return model.TaskPage{}, err
	}

	query := `
        SELECT id, project_id, title, description, due_date, status, created_at
        FROM tasks
        WHERE project_id = $1
          AND ($2::text IS NULL OR title ILIKE $2)
          AND ($3::text IS NULL OR status = $3)
        ORDER BY due_date DESC NULLS LAST, id ASC
        LIMIT $4 OFFSET $5
    `
	rows, err := r.db.Query(ctx, query, projectID, search, status, filter.Size, filter.Page*filter.Size)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err), zap.Int64("project_id", projectID))
		return model.TaskPage{}, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return model.TaskPage{}, err
	}

	totalPages := int(total) / filter.Size
	if int(total)%filter.Size != 0 {
		totalPages++
	}

	return model.TaskPage{
		Content:       tasks,
		Page:          filter.Page,
		Size:          filter.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

// Update overwrites the mutable columns. Zero rows affected means the task
// vanished between load and write.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	defer observe("update", "tasks")()

	query := `
        UPDATE tasks
        SET title = $2, description = $3, due_date = $4, status = $5
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query, t.ID, t.Title, t.Description, t.DueDate, t.Status)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.Int64("task_id", t.ID))
		return err
	}
	if result.RowsAffected() == 0 {
		return model.NewNotFound("task not found")
	}

	r.logger.Info("Task updated", zap.Int64("task_id", t.ID))
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	defer observe("delete", "tasks")()

	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int64("task_id", id))
		return err
	}
	if result.RowsAffected() == 0 {
		return model.NewNotFound("task not found")
	}

	r.logger.Info("Task deleted", zap.Int64("task_id", id))
	return nil
}

func scanTasks(rows pgx.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
