package tasks

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

// Handler exposes personal task endpoints.
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

// MountRoutes registers task routes. Item routes go through the ownership
// check; admins pass it for support access.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermTasksRead))
		r.Get("/", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermTasksWrite))
		r.Post("/", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireOwnership(authz.ResourceTask))
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns the caller's own tasks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := authz.IdentityFromContext(r.Context())
	list, err := h.service.ListForUser(r.Context(), actor.ID)
	if err != nil {
		h.respondServiceError(w, err, "list tasks")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"tasks": list})
}

// Show returns one task.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r)
	if !ok {
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "load task")
		return
	}
	shared.RespondJSON(w, http.StatusOK, t)
}

// Create registers a task for the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context())
	t, err := h.service.Create(r.Context(), actor.ID, req)
	if err != nil {
		h.respondServiceError(w, err, "create task")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, t)
}

// Update applies partial changes to a task.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r)
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, "update task")
		return
	}
	shared.RespondJSON(w, http.StatusOK, t)
}

// Delete removes a task.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.param(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "delete task")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
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
	if errors.Is(err, shared.ErrNotFound) {
		shared.RespondError(w, http.StatusNotFound, "task not found", nil)
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	shared.RespondError(w, http.StatusInternalServerError, "internal error", nil)
}

func (h *Handler) param(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondError(w, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
