package progress

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// ErrAlreadyEnrolled indicates an existing progress record for the pair.
var ErrAlreadyEnrolled = errors.New("progress: already enrolled")

// Repository defines persistence operations for progress records.
type Repository interface {
	Create(ctx context.Context, userID, courseID int64) (*Progress, error)
	Get(ctx context.Context, id int64) (*Progress, error)
	ListForUser(ctx context.Context, userID int64) ([]Progress, error)
	MarkLessonComplete(ctx context.Context, id int64) (*Progress, error)
	Stats(ctx context.Context, courseID int64) (*CourseStats, error)
	RefreshStats(ctx context.Context, courseID int64) error
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const progressColumns = `id, user_id, course_id, completed_lessons, total_lessons, percent, completed_at, created_at, updated_at`

// Create inserts the enrollment record, snapshotting the current lesson
// count as the denominator.
func (r *PGRepository) Create(ctx context.Context, userID, courseID int64) (*Progress, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM progress WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}
	var p Progress
	err := r.pool.QueryRow(ctx,
		`INSERT INTO progress (user_id, course_id, completed_lessons, total_lessons, percent, created_at, updated_at)
		 SELECT $1, $2, 0, COUNT(l.id), 0, NOW(), NOW()
		   FROM courses c LEFT JOIN lessons l ON l.course_id = c.id
		  WHERE c.id = $2
		  GROUP BY c.id
		 RETURNING `+progressColumns,
		userID, courseID,
	).Scan(&p.ID, &p.UserID, &p.CourseID, &p.CompletedLessons, &p.TotalLessons, &p.Percent, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Get fetches a progress record by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Progress, error) {
	var p Progress
	err := r.pool.QueryRow(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.CourseID, &p.CompletedLessons, &p.TotalLessons, &p.Percent, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListForUser returns all progress records of a user.
func (r *PGRepository) ListForUser(ctx context.Context, userID int64) ([]Progress, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Progress
	for rows.Next() {
		var p Progress
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.CompletedLessons, &p.TotalLessons, &p.Percent, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// MarkLessonComplete bumps the completion counter, capped at the lesson
// total, and stamps completion when everything is done.
func (r *PGRepository) MarkLessonComplete(ctx context.Context, id int64) (*Progress, error) {
	var p Progress
	err := r.pool.QueryRow(ctx,
		`UPDATE progress SET
		    completed_lessons = LEAST(completed_lessons + 1, total_lessons),
		    percent = CASE WHEN total_lessons = 0 THEN 0
		              ELSE LEAST(completed_lessons + 1, total_lessons) * 100.0 / total_lessons END,
		    completed_at = CASE WHEN LEAST(completed_lessons + 1, total_lessons) = total_lessons AND total_lessons > 0
		                   THEN COALESCE(completed_at, NOW()) ELSE completed_at END,
		    updated_at = NOW()
		  WHERE id = $1
		 RETURNING `+progressColumns, id,
	).Scan(&p.ID, &p.UserID, &p.CourseID, &p.CompletedLessons, &p.TotalLessons, &p.Percent, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Stats reads the aggregated course statistics.
func (r *PGRepository) Stats(ctx context.Context, courseID int64) (*CourseStats, error) {
	var s CourseStats
	err := r.pool.QueryRow(ctx,
		`SELECT course_id, enrolled, completed, avg_percent, refreshed_at
		   FROM course_stats WHERE course_id = $1`, courseID,
	).Scan(&s.CourseID, &s.Enrolled, &s.Completed, &s.AvgPercent, &s.RefreshedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// RefreshStats recomputes the aggregate row for one course.
func (r *PGRepository) RefreshStats(ctx context.Context, courseID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO course_stats (course_id, enrolled, completed, avg_percent, refreshed_at)
		 SELECT $1,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE completed_at IS NOT NULL),
		        COALESCE(AVG(percent), 0),
		        NOW()
		   FROM progress WHERE course_id = $1
		 ON CONFLICT (course_id) DO UPDATE SET
		    enrolled = EXCLUDED.enrolled,
		    completed = EXCLUDED.completed,
		    avg_percent = EXCLUDED.avg_percent,
		    refreshed_at = EXCLUDED.refreshed_at`, courseID)
	return err
}

var _ Repository = (*PGRepository)(nil)
