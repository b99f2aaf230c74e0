package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) error {
	defer observe("insert", "projects")()

	r.logger.Debug("Inserting project",
		zap.Int64("user_id", p.UserID),
		zap.String("title", p.Title),
	)

	query := `
        INSERT INTO projects (user_id, title, description)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, p.UserID, p.Title, p.Description).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return err
	}

	r.logger.Info("Project inserted",
		zap.Int64("project_id", p.ID),
		zap.Int64("user_id", p.UserID),
	)
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	defer observe("select", "projects")()

	query := `
        SELECT id, user_id, title, description, created_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound("project not found")
		}
		r.logger.Error("Failed to query project", zap.Error(err), zap.Int64("project_id", id))
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, userID int64) ([]model.Project, error) {
	defer observe("select", "projects")()

	query := `
        SELECT id, user_id, title, description, created_at
        FROM projects
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err), zap.Int64("user_id", userID))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			r.logger.Error("Failed to scan project row", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Update overwrites the mutable columns. Zero rows affected means the
// project vanished between load and write.
func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	defer observe("update", "projects")()

	query := `
        UPDATE projects
        SET title = $2, description = $3
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query, p.ID, p.Title, p.Description)
	if err != nil {
		r.logger.Error("Failed to update project", zap.Error(err), zap.Int64("project_id", p.ID))
		return err
	}
	if result.RowsAffected() == 0 {
		return model.NewNotFound("project not found")
	}

	r.logger.Info("Project updated", zap.Int64("project_id", p.ID))
	return nil
}

// DeleteWithTasks removes a project and every task under it in one
// transaction. The tasks go first so no orphan can survive a partial
// failure.
func (r *ProjectRepository) DeleteWithTasks(ctx context.Context, id int64) error {
	defer observe("delete", "projects")()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback(ctx)

	tasksResult, err := tx.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project tasks", zap.Error(err), zap.Int64("project_id", id))
		return err
	}

	projectResult, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Error(err), zap.Int64("project_id", id))
		return err
	}
	if projectResult.RowsAffected() == 0 {
		// Vanished mid-operation; roll back the task deletes.
		return model.NewNotFound("project not found")
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error("Failed to commit transaction", zap.Error(err))
		return err
	}

	r.logger.Info("Project deleted",
		zap.Int64("project_id", id),
		zap.Int64("tasks_deleted", tasksResult.RowsAffected()),
	)
	return nil
}
