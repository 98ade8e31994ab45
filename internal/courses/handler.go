package courses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Handler exposes course and lesson endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	authz    authz.Middleware
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw, validate: validator.New()}
}

// List returns paginated courses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	list, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list courses", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load courses", nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"courses":    list,
		"pagination": pagination,
	})
}

// Show returns one course.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := courseParam(w, r, "id")
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "load course")
		return
	}
	shared.RespondJSON(w, http.StatusOK, c)
}

// Create registers a new course owned by the calling instructor.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid course payload", nil)
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context())
	c, err := h.service.Create(r.Context(), actor.ID, req)
	if err != nil {
		h.respondServiceError(w, err, "create course")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, c)
}

// Update applies partial changes to a course.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := courseParam(w, r, "id")
	if !ok {
		return
	}
	var req UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid course payload", nil)
		return
	}
	c, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, "update course")
		return
	}
	shared.RespondJSON(w, http.StatusOK, c)
}

// Delete removes a course.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := courseParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "delete course")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Lessons lists a course's content for enrolled users.
func (h *Handler) Lessons(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseParam(w, r, "courseId")
	if !ok {
		return
	}
	lessons, err := h.service.Lessons(r.Context(), courseID)
	if err != nil {
		h.respondServiceError(w, err, "list lessons")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"lessons": lessons})
}

// AddLesson appends a lesson to a course.
func (h *Handler) AddLesson(w http.ResponseWriter, r *http.Request) {
	courseID, ok := courseParam(w, r, "courseId")
	if !ok {
		return
	}
	var req CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid lesson payload", nil)
		return
	}
	l, err := h.service.AddLesson(r.Context(), courseID, req)
	if err != nil {
		h.respondServiceError(w, err, "create lesson")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, l)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, shared.ErrNotFound) {
		shared.RespondError(w, http.StatusNotFound, "course not found", nil)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	shared.RespondError(w, http.StatusInternalServerError, "internal error", nil)
}

func courseParam(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondError(w, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
