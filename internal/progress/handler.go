package progress

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

// StatsQueue schedules background stat refreshes after progress mutations.
type StatsQueue interface {
	EnqueueProgressRecalc(ctx context.Context, courseID int64) error
}

// Handler exposes enrollment and progress endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
	queue   StatsQueue
}

// NewHandler constructs a Handler. queue may be nil; stat refreshes then
// wait for the cron sweep.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware, queue StatsQueue) *Handler {
	return &Handler{logger: logger, service: service, authz: mw, queue: queue}
}

// scheduleRecalc enqueues a stats refresh, best effort.
func (h *Handler) scheduleRecalc(ctx context.Context, courseID int64) {
	if h.queue == nil {
		return
	}
	if err := h.queue.EnqueueProgressRecalc(ctx, courseID); err != nil {
		h.logger.Warn("enqueue stats recalc", slog.Int64("course_id", courseID), slog.Any("error", err))
	}
}

// MountCourseRoutes registers the routes nested under /courses.
func (h *Handler) MountCourseRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermEnrollWrite))
		r.Post("/{courseId}/enroll", h.Enroll)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCourseInstructor())
		r.Get("/{courseId}/stats", h.Stats)
	})
}

// MountRoutes registers the standalone progress routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireOwnership(authz.ResourceProgress))
		r.Get("/{id}", h.Show)
		r.Post("/{id}/complete", h.CompleteLesson)
	})
}

// MountUserRoutes registers the per-user listing under /users.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireSelfOrRole(authz.RoleAdmin, authz.RoleInstructor))
		r.Get("/{userId}/progress", h.ForUser)
	})
}

// Enroll creates the caller's enrollment in a course.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context())
	p, err := h.service.Enroll(r.Context(), actor.ID, courseID)
	if err != nil {
		h.respondServiceError(w, err, "enroll")
		return
	}
	h.scheduleRecalc(r.Context(), p.CourseID)
	shared.RespondJSON(w, http.StatusCreated, p)
}

// Show returns one progress record.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "load progress")
		return
	}
	shared.RespondJSON(w, http.StatusOK, p)
}

// CompleteLesson advances the record by one lesson.
func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r, "id")
	if !ok {
		return
	}
	p, err := h.service.CompleteLesson(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "complete lesson")
		return
	}
	h.scheduleRecalc(r.Context(), p.CourseID)
	shared.RespondJSON(w, http.StatusOK, p)
}

// ForUser lists a user's progress records.
func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.param(w, r, "userId")
	if !ok {
		return
	}
	list, err := h.service.ForUser(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err, "list progress")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"progress": list})
}

// Stats returns the aggregated course statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), courseID)
	if err != nil {
		h.respondServiceError(w, err, "load stats")
		return
	}
	shared.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, ErrAlreadyEnrolled):
		shared.RespondError(w, http.StatusConflict, ErrAlreadyEnrolled.Error(), nil)
	default:
		h.logger.Error(op, slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *Handler) param(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondError(w, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
