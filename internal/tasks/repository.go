package tasks

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Repository defines persistence operations for tasks.
type Repository interface {
	ListForUser(ctx context.Context, userID int64) ([]Task, error)
	Get(ctx context.Context, id int64) (*Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const taskColumns = `id, user_id, title, notes, done, due_at, created_at, updated_at`

// ListForUser returns a user's tasks, due-date first.
func (r *PGRepository) ListForUser(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY due_at NULLS LAST, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Done, &t.DueAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Get fetches a task by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Task, error) {
	var t Task
	err := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Done, &t.DueAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a new task.
func (r *PGRepository) Create(ctx context.Context, t *Task) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, notes, done, due_at, created_at, updated_at)
		 VALUES ($1, $2, $3, FALSE, $4, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Title, t.Notes, t.DueAt,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update persists task changes.
func (r *PGRepository) Update(ctx context.Context, t *Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET title = $2, notes = $3, done = $4, due_at = $5, updated_at = NOW() WHERE id = $1`,
		t.ID, t.Title, t.Notes, t.Done, t.DueAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a task.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
