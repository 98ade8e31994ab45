package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Handler exposes authentication endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	gate     Middleware
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		gate:     Middleware{Service: service, Logger: logger},
		validate: validator.New(),
	}
}

// Gate returns the authentication middleware backed by this handler's
// service.
func (h *Handler) Gate() Middleware {
	return h.gate
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Authenticate)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login verifies credentials and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.RespondError(w, http.StatusUnauthorized, shared.ErrInvalidCredentials.Error(), nil)
		return
	}

	token, err := h.service.IssueToken(user)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "login failed", nil)
		return
	}

	shared.RespondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.service.TokenTTL()),
		User: userResponse{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(authz.NormalizeRole(user.Role)),
		},
	})
}

// Logout revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	raw, ok := bearerToken(r)
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, shared.ErrNoToken.Error(), nil)
		return
	}
	if err := h.service.RevokeToken(r.Context(), raw); err != nil {
		h.logger.Error("revoke token", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "logout failed", nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me returns the authenticated identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := authz.IdentityFromContext(r.Context())
	if !ok {
		shared.RespondError(w, http.StatusUnauthorized, shared.ErrNoToken.Error(), nil)
		return
	}
	shared.RespondJSON(w, http.StatusOK, userResponse{
		ID:    id.ID,
		Email: id.Email,
		Name:  id.Name,
		Role:  string(id.Role),
	})
}
