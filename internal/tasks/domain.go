package tasks

import "time"

// Task is a personal to-do item owned by one user.
type Task struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes,omitempty"`
	Done      bool       `json:"done"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateTaskRequest is the task creation payload.
type CreateTaskRequest struct {
	Title string     `json:"title" validate:"required,max=200"`
	Notes string     `json:"notes" validate:"max=2000"`
	DueAt *time.Time `json:"due_at,omitempty"`
}

// UpdateTaskRequest carries partial task updates.
type UpdateTaskRequest struct {
	Title *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Notes *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	Done  *bool      `json:"done,omitempty"`
	DueAt *time.Time `json:"due_at,omitempty"`
}
