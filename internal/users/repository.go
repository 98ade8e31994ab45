package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]User, int, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, email, name, role, passwordHash string) (*User, error)
	Update(ctx context.Context, u *User) error
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

const uniqueViolation = "23505"

// List returns a page of users plus the total count.
func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, role, is_active, created_at, updated_at
		   FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get fetches a user by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, role, is_active, created_at, updated_at
		   FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new account. Duplicate emails map to ErrDuplicateEmail.
func (r *PGRepository) Create(ctx context.Context, email, name, role, passwordHash string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, role, password_hash, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		 RETURNING id, email, name, role, is_active, created_at, updated_at`,
		email, name, role, passwordHash,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

// Update persists name/role/activation changes.
func (r *PGRepository) Update(ctx context.Context, u *User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $2, role = $3, is_active = $4, updated_at = NOW() WHERE id = $1`,
		u.ID, u.Name, u.Role, u.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a user by id.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
