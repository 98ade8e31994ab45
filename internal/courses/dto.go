package courses

// CreateCourseRequest is the course creation payload. The instructor is the
// authenticated caller, never a body field.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateCourseRequest carries partial course updates.
type UpdateCourseRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Published   *bool   `json:"published,omitempty"`
}

// CreateLessonRequest is the lesson creation payload.
type CreateLessonRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}
