package courses

import (
	"context"
	"strings"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Service wraps course business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of courses.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Course, shared.Pagination, error) {
	p := shared.NewPagination(page, perPage, 0)
	list, total, err := s.repo.List(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page, perPage, total), nil
}

// Get fetches a single course.
func (s *Service) Get(ctx context.Context, id int64) (*Course, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new course owned by the given instructor.
func (s *Service) Create(ctx context.Context, instructorID int64, req CreateCourseRequest) (*Course, error) {
	c := &Course{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		InstructorID: instructorID,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies partial course changes.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*Course, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		c.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	if req.Published != nil {
		c.Published = *req.Published
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a course.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Lessons returns the course's lessons in position order.
func (s *Service) Lessons(ctx context.Context, courseID int64) ([]Lesson, error) {
	if _, err := s.repo.Get(ctx, courseID); err != nil {
		return nil, err
	}
	return s.repo.ListLessons(ctx, courseID)
}

// AddLesson appends a lesson to a course.
func (s *Service) AddLesson(ctx context.Context, courseID int64, req CreateLessonRequest) (*Lesson, error) {
	if _, err := s.repo.Get(ctx, courseID); err != nil {
		return nil, err
	}
	l := &Lesson{
		CourseID: courseID,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Position: req.Position,
	}
	if err := s.repo.CreateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
