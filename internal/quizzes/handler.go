package quizzes

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

// Handler exposes quiz endpoints, all nested under a course.
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

// MountRoutes registers quiz routes under /courses/{courseId}/quizzes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCourseEnrollment())
		r.Get("/", h.List)
		r.Get("/{quizId}", h.Show)
		r.Get("/{quizId}/attempts/me", h.MyAttempts)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(
			h.authz.PermissionGuard(shared.PermQuizAttempt),
			h.authz.EnrollmentGuard(),
		))
		r.Post("/{quizId}/attempts", h.Submit)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCourseInstructor())
		r.Post("/", h.Create)
		r.Post("/{quizId}/questions", h.AddQuestion)
		r.Get("/{quizId}/attempts", h.Attempts)
	})
}

// List returns a course's quizzes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	list, err := h.service.ListByCourse(r.Context(), courseID)
	if err != nil {
		h.respondServiceError(w, err, "list quizzes")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"quizzes": list})
}

// Show returns a quiz with questions. The answer key is included only for
// the course's instructor or an admin.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	quizID, ok := h.param(w, r, "quizId")
	if !ok {
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context())
	forInstructor := h.authz.Resolver.Resolve(r.Context(), authz.ResourceCourse, courseID, actor).Allowed
	quiz, questions, err := h.service.Get(r.Context(), courseID, quizID, forInstructor)
	if err != nil {
		h.respondServiceError(w, err, "load quiz")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"quiz": quiz, "questions": questions})
}

// Create registers a quiz on the course.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	var req CreateQuizRequest
	if !h.decode(w, r, &req) {
		return
	}
	quiz, err := h.service.Create(r.Context(), courseID, req)
	if err != nil {
		h.respondServiceError(w, err, "create quiz")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, quiz)
}

// AddQuestion appends a question.
func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	quizID, ok := h.param(w, r, "quizId")
	if !ok {
		return
	}
	var req AddQuestionRequest
	if !h.decode(w, r, &req) {
		return
	}
	qu, err := h.service.AddQuestion(r.Context(), courseID, quizID, req)
	if err != nil {
		h.respondServiceError(w, err, "add question")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, qu)
}

// Submit grades and records an attempt for the calling student.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	quizID, ok := h.param(w, r, "quizId")
	if !ok {
		return
	}
	var req SubmitAttemptRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context())
	attempt, err := h.service.SubmitAttempt(r.Context(), courseID, quizID, actor.ID, req)
	if err != nil {
		h.respondServiceError(w, err, "submit attempt")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, attempt)
}

// Attempts lists every submission for grading.
func (h *Handler) Attempts(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	quizID, ok := h.param(w, r, "quizId")
	if !ok {
		return
	}
	list, err := h.service.Attempts(r.Context(), courseID, quizID)
	if err != nil {
		h.respondServiceError(w, err, "list attempts")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"attempts": list})
}

// MyAttempts lists the caller's own submissions.
func (h *Handler) MyAttempts(w http.ResponseWriter, r *http.Request) {
	courseID, ok := h.param(w, r, "courseId")
	if !ok {
		return
	}
	quizID, ok := h.param(w, r, "quizId")
	if !ok {
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context())
	list, err := h.service.UserAttempts(r.Context(), courseID, quizID, actor.ID)
	if err != nil {
		h.respondServiceError(w, err, "list own attempts")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"attempts": list})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid payload", nil)
		return false
	}
	return true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "quiz not found", nil)
	case errors.Is(err, ErrAnswerCount), errors.Is(err, ErrBadAnswerIndex):
		shared.RespondError(w, http.StatusBadRequest, err.Error(), nil)
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
