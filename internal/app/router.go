package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pathlight-lms/pathlight/internal/auth"
	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/courses"
	"github.com/pathlight-lms/pathlight/internal/observability"
	"github.com/pathlight-lms/pathlight/internal/progress"
	"github.com/pathlight-lms/pathlight/internal/quizzes"
	"github.com/pathlight-lms/pathlight/internal/tasks"
	"github.com/pathlight-lms/pathlight/internal/users"
	"github.com/pathlight-lms/pathlight/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Authz           authz.Middleware
	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	CoursesHandler  *courses.Handler
	QuizzesHandler  *quizzes.Handler
	ProgressHandler *progress.Handler
	TasksHandler    *tasks.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Pathlight defaults. Everything
// under /api runs behind the authentication gate; guard middleware is
// declared per route group inside each handler.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	gate := params.AuthHandler.Gate()
	r.Route("/api", func(r chi.Router) {
		r.Use(gate.Authenticate)

		r.Route("/users", func(r chi.Router) {
			params.UsersHandler.MountRoutes(r)
			params.ProgressHandler.MountUserRoutes(r)
		})
		r.Route("/courses", func(r chi.Router) {
			params.CoursesHandler.MountRoutes(r)
			params.ProgressHandler.MountCourseRoutes(r)
			r.Route("/{courseId}/quizzes", params.QuizzesHandler.MountRoutes)
		})
		r.Route("/progress", params.ProgressHandler.MountRoutes)
		r.Route("/tasks", params.TasksHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", func(r chi.Router) {
				r.Use(params.Authz.AdminOnly())
				params.JobHandler.MountRoutes(r)
			})
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
