package tasks

import (
	"context"
	"strings"
)

// Service wraps task rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForUser returns a user's tasks.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Task, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Get fetches one task.
func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a task owned by the caller.
func (s *Service) Create(ctx context.Context, userID int64, req CreateTaskRequest) (*Task, error) {
	t := &Task{
		UserID: userID,
		Title:  strings.TrimSpace(req.Title),
		Notes:  strings.TrimSpace(req.Notes),
		DueAt:  req.DueAt,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies partial task changes.
func (s *Service) Update(ctx context.Context, id int64, req UpdateTaskRequest) (*Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Notes != nil {
		t.Notes = strings.TrimSpace(*req.Notes)
	}
	if req.Done != nil {
		t.Done = *req.Done
	}
	if req.DueAt != nil {
		t.DueAt = req.DueAt
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
