package quizzes

import "time"

// Quiz is an assessment attached to a course.
type Quiz struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	Title     string    `json:"title"`
	PassScore int       `json:"pass_score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Question is a single-choice question. The answer index is only exposed
// to instructors; student views strip it.
type Question struct {
	ID      int64    `json:"id"`
	QuizID  int64    `json:"quiz_id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer,omitempty"`
}

// Attempt records one graded submission.
type Attempt struct {
	ID          int64     `json:"id"`
	QuizID      int64     `json:"quiz_id"`
	UserID      int64     `json:"user_id"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Passed      bool      `json:"passed"`
	SubmittedAt time.Time `json:"submitted_at"`
}
