package quizzes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Repository defines persistence operations for quizzes.
type Repository interface {
	ListByCourse(ctx context.Context, courseID int64) ([]Quiz, error)
	Get(ctx context.Context, courseID, quizID int64) (*Quiz, error)
	Create(ctx context.Context, q *Quiz) error
	AddQuestion(ctx context.Context, qu *Question) error
	ListQuestions(ctx context.Context, quizID int64) ([]Question, error)
	CreateAttempt(ctx context.Context, a *Attempt) error
	ListAttempts(ctx context.Context, quizID int64) ([]Attempt, error)
	ListUserAttempts(ctx context.Context, quizID, userID int64) ([]Attempt, error)
}

// PGRepository provides PostgreSQL backed persistence. Question options are
// stored as a text array.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListByCourse returns all quizzes of a course.
func (r *PGRepository) ListByCourse(ctx context.Context, courseID int64) ([]Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, pass_score, created_at, updated_at
		   FROM quizzes WHERE course_id = $1 ORDER BY id`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Quiz
	for rows.Next() {
		var q Quiz
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Title, &q.PassScore, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Get fetches a quiz scoped to its course.
func (r *PGRepository) Get(ctx context.Context, courseID, quizID int64) (*Quiz, error) {
	var q Quiz
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, pass_score, created_at, updated_at
		   FROM quizzes WHERE id = $1 AND course_id = $2`, quizID, courseID,
	).Scan(&q.ID, &q.CourseID, &q.Title, &q.PassScore, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// Create inserts a new quiz.
func (r *PGRepository) Create(ctx context.Context, q *Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (course_id, title, pass_score, created_at, updated_at)
		 VALUES ($1, $2, $3, NOW(), NOW())
		 RETURNING id, created_at, updated_at`,
		q.CourseID, q.Title, q.PassScore,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// AddQuestion inserts a question.
func (r *PGRepository) AddQuestion(ctx context.Context, qu *Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_questions (quiz_id, prompt, options, answer)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		qu.QuizID, qu.Prompt, qu.Options, qu.Answer,
	).Scan(&qu.ID)
}

// ListQuestions returns questions in insertion order.
func (r *PGRepository) ListQuestions(ctx context.Context, quizID int64) ([]Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, prompt, options, answer
		   FROM quiz_questions WHERE quiz_id = $1 ORDER BY id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Prompt, &q.Options, &q.Answer); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// CreateAttempt records a graded submission.
func (r *PGRepository) CreateAttempt(ctx context.Context, a *Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts (quiz_id, user_id, score, total, passed, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, submitted_at`,
		a.QuizID, a.UserID, a.Score, a.Total, a.Passed,
	).Scan(&a.ID, &a.SubmittedAt)
}

// ListAttempts returns every attempt for a quiz, newest first.
func (r *PGRepository) ListAttempts(ctx context.Context, quizID int64) ([]Attempt, error) {
	return r.scanAttempts(ctx,
		`SELECT id, quiz_id, user_id, score, total, passed, submitted_at
		   FROM quiz_attempts WHERE quiz_id = $1 ORDER BY submitted_at DESC`, quizID)
}

// ListUserAttempts returns one user's attempts for a quiz, newest first.
func (r *PGRepository) ListUserAttempts(ctx context.Context, quizID, userID int64) ([]Attempt, error) {
	return r.scanAttempts(ctx,
		`SELECT id, quiz_id, user_id, score, total, passed, submitted_at
		   FROM quiz_attempts WHERE quiz_id = $1 AND user_id = $2 ORDER BY submitted_at DESC`,
		quizID, userID)
}

func (r *PGRepository) scanAttempts(ctx context.Context, query string, args ...any) ([]Attempt, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.Total, &a.Passed, &a.SubmittedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
