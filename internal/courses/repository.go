package courses

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Repository defines persistence operations for courses and lessons.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]Course, int, error)
	Get(ctx context.Context, id int64) (*Course, error)
	Create(ctx context.Context, c *Course) error
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id int64) error
	ListLessons(ctx context.Context, courseID int64) ([]Lesson, error)
	CreateLesson(ctx context.Context, l *Lesson) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns a page of courses plus the total count.
func (r *PGRepository) List(ctx context.Context, limit, offset int) ([]Course, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, description, instructor_id, published, created_at, updated_at
		   FROM courses ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Get fetches a course by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Course, error) {
	var c Course
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, instructor_id, published, created_at, updated_at
		   FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.InstructorID, &c.Published, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course.
func (r *PGRepository) Create(ctx context.Context, c *Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description, instructor_id, published, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		c.Title, c.Description, c.InstructorID, c.Published,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update persists course changes.
func (r *PGRepository) Update(ctx context.Context, c *Course) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses SET title = $2, description = $3, published = $4, updated_at = NOW() WHERE id = $1`,
		c.ID, c.Title, c.Description, c.Published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a course and its lessons.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListLessons returns lessons ordered by position.
func (r *PGRepository) ListLessons(ctx context.Context, courseID int64) ([]Lesson, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, content, position, created_at, updated_at
		   FROM lessons WHERE course_id = $1 ORDER BY position, id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Lesson
	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Content, &l.Position, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateLesson inserts a lesson into a course.
func (r *PGRepository) CreateLesson(ctx context.Context, l *Lesson) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO lessons (course_id, title, content, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		l.CourseID, l.Title, l.Content, l.Position,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

var _ Repository = (*PGRepository)(nil)
