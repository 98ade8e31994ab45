package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// PGStore implements Store with read-only PostgreSQL lookups.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a store over the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// CourseInstructor returns the instructor id of a course.
func (s *PGStore) CourseInstructor(ctx context.Context, courseID int64) (int64, error) {
	var instructorID int64
	err := s.pool.QueryRow(ctx,
		`SELECT instructor_id FROM courses WHERE id = $1`, courseID,
	).Scan(&instructorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return instructorID, nil
}

// TaskOwner returns the owning user id of a task.
func (s *PGStore) TaskOwner(ctx context.Context, taskID int64) (int64, error) {
	var ownerID int64
	err := s.pool.QueryRow(ctx,
		`SELECT user_id FROM tasks WHERE id = $1`, taskID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return ownerID, nil
}

// Progress returns the ownership relations of a progress record, joining
// through the course for derived instructor access.
func (s *PGStore) Progress(ctx context.Context, progressID int64) (ProgressRecord, error) {
	var rec ProgressRecord
	err := s.pool.QueryRow(ctx,
		`SELECT p.user_id, p.course_id, c.instructor_id
		   FROM progress p
		   JOIN courses c ON c.id = p.course_id
		  WHERE p.id = $1`, progressID,
	).Scan(&rec.UserID, &rec.CourseID, &rec.InstructorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProgressRecord{}, shared.ErrNotFound
		}
		return ProgressRecord{}, err
	}
	return rec, nil
}

// UserExists reports whether a user record exists.
func (s *PGStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// EnrollmentExists reports whether a progress record links user and course.
func (s *PGStore) EnrollmentExists(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM progress WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

var _ Store = (*PGStore)(nil)
