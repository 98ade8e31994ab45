package quizzes

import (
	"context"
	"errors"
	"strings"
)

// ErrAnswerCount indicates a submission whose answer list does not match
// the question count.
var ErrAnswerCount = errors.New("quizzes: answer count mismatch")

// ErrBadAnswerIndex indicates an out-of-range answer index on authoring.
var ErrBadAnswerIndex = errors.New("quizzes: answer index out of range")

// Service wraps quiz authoring and grading rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListByCourse returns a course's quizzes.
func (s *Service) ListByCourse(ctx context.Context, courseID int64) ([]Quiz, error) {
	return s.repo.ListByCourse(ctx, courseID)
}

// Get fetches one quiz scoped to its course. Student views drop answer
// keys; forInstructor keeps them.
func (s *Service) Get(ctx context.Context, courseID, quizID int64, forInstructor bool) (*Quiz, []Question, error) {
	q, err := s.repo.Get(ctx, courseID, quizID)
	if err != nil {
		return nil, nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}
	if !forInstructor {
		for i := range questions {
			questions[i].Answer = 0
		}
	}
	return q, questions, nil
}

// Create registers a new quiz on a course.
func (s *Service) Create(ctx context.Context, courseID int64, req CreateQuizRequest) (*Quiz, error) {
	q := &Quiz{
		CourseID:  courseID,
		Title:     strings.TrimSpace(req.Title),
		PassScore: req.PassScore,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// AddQuestion appends a question to a quiz.
func (s *Service) AddQuestion(ctx context.Context, courseID, quizID int64, req AddQuestionRequest) (*Question, error) {
	if _, err := s.repo.Get(ctx, courseID, quizID); err != nil {
		return nil, err
	}
	if req.Answer < 0 || req.Answer >= len(req.Options) {
		return nil, ErrBadAnswerIndex
	}
	qu := &Question{
		QuizID:  quizID,
		Prompt:  strings.TrimSpace(req.Prompt),
		Options: req.Options,
		Answer:  req.Answer,
	}
	if err := s.repo.AddQuestion(ctx, qu); err != nil {
		return nil, err
	}
	return qu, nil
}

// SubmitAttempt grades a submission against the answer key and records it.
func (s *Service) SubmitAttempt(ctx context.Context, courseID, quizID, userID int64, req SubmitAttemptRequest) (*Attempt, error) {
	quiz, err := s.repo.Get(ctx, courseID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(req.Answers) != len(questions) {
		return nil, ErrAnswerCount
	}
	correct := 0
	for i, q := range questions {
		if req.Answers[i] == q.Answer {
			correct++
		}
	}
	score := 0
	if len(questions) > 0 {
		score = correct * 100 / len(questions)
	}
	a := &Attempt{
		QuizID: quizID,
		UserID: userID,
		Score:  score,
		Total:  len(questions),
		Passed: score >= quiz.PassScore,
	}
	if err := s.repo.CreateAttempt(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Attempts returns all attempts for a quiz.
func (s *Service) Attempts(ctx context.Context, courseID, quizID int64) ([]Attempt, error) {
	if _, err := s.repo.Get(ctx, courseID, quizID); err != nil {
		return nil, err
	}
	return s.repo.ListAttempts(ctx, quizID)
}

// UserAttempts returns one user's attempts for a quiz.
func (s *Service) UserAttempts(ctx context.Context, courseID, quizID, userID int64) ([]Attempt, error) {
	if _, err := s.repo.Get(ctx, courseID, quizID); err != nil {
		return nil, err
	}
	return s.repo.ListUserAttempts(ctx, quizID, userID)
}
