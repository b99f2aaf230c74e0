package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskhub/internal/model"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a new user. A unique-index violation on email is reported
// as already-exists: it is the backstop for two registrations racing past
// the pre-insert lookup.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	defer observe("insert", "users")()

	query := `
        INSERT INTO users (email, username, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, u.Email, u.Username, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.NewAlreadyExists("email already registered")
		}
		r.logger.Error("Failed to insert user", zap.Error(err))
		return err
	}

	r.logger.Info("User created", zap.Int64("user_id", u.ID))
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	defer observe("select", "users")()

	query := `
        SELECT id, email, username, password_hash, created_at
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound("user not found")
		}
		r.logger.Error("Failed to query user", zap.Error(err), zap.Int64("user_id", id))
		return nil, err
	}
	return &u, nil
}

// UpdateUsername overwrites the display name. Zero rows affected means the
// user vanished between load and write.
func (r *UserRepository) UpdateUsername(ctx context.Context, id int64, username string) error {
	defer observe("update", "users")()

	result, err := r.db.Exec(ctx, `UPDATE users SET username = $2 WHERE id = $1`, id, username)
	if err != nil {
		r.logger.Error("Failed to update user", zap.Error(err), zap.Int64("user_id", id))
		return err
	}
	if result.RowsAffected() == 0 {
		return model.NewNotFound("user not found")
	}

	r.logger.Info("User updated", zap.Int64("user_id", id))
	return nil
}

// FindByEmail returns the user stored under an (already lowercased) email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer observe("select", "users")()

	query := `
        SELECT id, email, username, password_hash, created_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewNotFound("user not found")
		}
		r.logger.Error("Failed to query user", zap.Error(err))
		return nil, err
	}
	return &u, nil
}
