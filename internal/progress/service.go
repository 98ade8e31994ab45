package progress

import (
	"context"
)

// Service wraps enrollment and progress rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Enroll creates the progress record linking user and course.
func (s *Service) Enroll(ctx context.Context, userID, courseID int64) (*Progress, error) {
	return s.repo.Create(ctx, userID, courseID)
}

// Get fetches one progress record.
func (s *Service) Get(ctx context.Context, id int64) (*Progress, error) {
	return s.repo.Get(ctx, id)
}

// ForUser returns every progress record of a user.
func (s *Service) ForUser(ctx context.Context, userID int64) ([]Progress, error) {
	return s.repo.ListForUser(ctx, userID)
}

// CompleteLesson advances a progress record by one lesson.
func (s *Service) CompleteLesson(ctx context.Context, id int64) (*Progress, error) {
	return s.repo.MarkLessonComplete(ctx, id)
}

// Stats reads the aggregated statistics of a course.
func (s *Service) Stats(ctx context.Context, courseID int64) (*CourseStats, error) {
	return s.repo.Stats(ctx, courseID)
}

// RefreshStats recomputes one course's aggregate row. Called by the
// background jobs, not by request handlers.
func (s *Service) RefreshStats(ctx context.Context, courseID int64) error {
	return s.repo.RefreshStats(ctx, courseID)
}
