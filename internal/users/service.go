package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

// ErrInvalidRole indicates an unrecognized role value.
var ErrInvalidRole = errors.New("users: invalid role")

// Service wraps user account business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of users.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	list, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new account with a canonical lower-case role.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	role := authz.NormalizeRole(req.Role)
	if !authz.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	return s.repo.Create(ctx, email, strings.TrimSpace(req.Name), string(role), string(hash))
}

// Update applies partial changes to an account.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		role := authz.NormalizeRole(*req.Role)
		if !authz.ValidRole(role) {
			return nil, ErrInvalidRole
		}
		u.Role = string(role)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
