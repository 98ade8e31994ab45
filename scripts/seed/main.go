package main

import (
	"context"
	"os"

	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/pathlight-lms/pathlight/internal/app"
	"github.com/pathlight-lms/pathlight/internal/platform/db"
)

// Seeds a development database with one user per role, a sample course
// with lessons and a quiz, and the student's enrollment.
func main() {
	ctx := context.Background()
	logger := slog.Default()

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme-dev"), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("error", err))
		os.Exit(1)
	}

	seedUsers := []struct {
		email, name, role string
	}{
		{"admin@pathlight.local", "Platform Admin", "admin"},
		{"instructor@pathlight.local", "Default Instructor", "instructor"},
		{"student@pathlight.local", "Sample Student", "student"},
	}
	ids := make(map[string]int64, len(seedUsers))
	for _, u := range seedUsers {
		var id int64
		err := pool.QueryRow(ctx,
			`INSERT INTO users (email, name, role, password_hash, is_active, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
			 ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
			 RETURNING id`,
			u.email, u.name, u.role, string(hash),
		).Scan(&id)
		if err != nil {
			logger.Error("seed user", slog.String("email", u.email), slog.Any("error", err))
			os.Exit(1)
		}
		ids[u.role] = id
	}

	var courseID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO courses (title, description, instructor_id, published, created_at, updated_at)
		 VALUES ('Getting Started', 'Introductory course seeded for development.', $1, TRUE, NOW(), NOW())
		 RETURNING id`, ids["instructor"],
	).Scan(&courseID)
	if err != nil {
		logger.Error("seed course", slog.Any("error", err))
		os.Exit(1)
	}

	for i, title := range []string{"Welcome", "First Steps", "Wrapping Up"} {
		if _, err := pool.Exec(ctx,
			`INSERT INTO lessons (course_id, title, content, position, created_at, updated_at)
			 VALUES ($1, $2, 'Seeded lesson content.', $3, NOW(), NOW())`,
			courseID, title, i); err != nil {
			logger.Error("seed lesson", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var quizID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO quizzes (course_id, title, pass_score, created_at, updated_at)
		 VALUES ($1, 'Checkpoint', 60, NOW(), NOW()) RETURNING id`, courseID,
	).Scan(&quizID)
	if err != nil {
		logger.Error("seed quiz", slog.Any("error", err))
		os.Exit(1)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO quiz_questions (quiz_id, prompt, options, answer)
		 VALUES ($1, 'Which role can author courses?', $2, 1)`,
		quizID, []string{"student", "instructor", "nobody"}); err != nil {
		logger.Error("seed question", slog.Any("error", err))
		os.Exit(1)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO progress (user_id, course_id, completed_lessons, total_lessons, percent, created_at, updated_at)
		 VALUES ($1, $2, 0, 3, 0, NOW(), NOW())
		 ON CONFLICT DO NOTHING`,
		ids["student"], courseID); err != nil {
		logger.Error("seed enrollment", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("seed complete", slog.Int64("course_id", courseID))
}
