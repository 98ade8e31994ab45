package users

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

// Handler exposes user management endpoints.
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

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermUsersRead))
		r.Get("/", h.List)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermUsersWrite))
		r.Post("/", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireSelfOrRole(authz.RoleAdmin, authz.RoleInstructor))
		r.Get("/{id}", h.Get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireSelfOrRole(authz.RoleAdmin))
		r.Put("/{id}", h.Update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermUsersDelete))
		r.Delete("/{id}", h.Delete)
	})
}

// List returns paginated users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageFromRequest(r)
	list, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load users", nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"users":      list,
		"pagination": pagination,
	})
}

// Get returns one user.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err, "load user")
		return
	}
	shared.RespondJSON(w, http.StatusOK, u)
}

// Create registers a new account.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid user payload", nil)
		return
	}
	u, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, "create user")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, u)
}

// Update applies partial account changes. Role and activation changes are
// restricted to admins even when the target is the caller.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid user payload", nil)
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context())
	if (req.Role != nil || req.IsActive != nil) && actor.Role != authz.RoleAdmin {
		shared.RespondError(w, http.StatusForbidden, "role changes require admin", nil)
		return
	}
	u, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, err, "update user")
		return
	}
	shared.RespondJSON(w, http.StatusOK, u)
}

// Delete removes an account.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "delete user")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, shared.ErrDuplicateEmail):
		shared.RespondError(w, http.StatusConflict, shared.ErrDuplicateEmail.Error(), nil)
	case errors.Is(err, ErrInvalidRole):
		shared.RespondError(w, http.StatusBadRequest, ErrInvalidRole.Error(), nil)
	default:
		h.logger.Error(op, slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondError(w, http.StatusBadRequest, "invalid id", nil)
		return 0, false
	}
	return id, true
}
