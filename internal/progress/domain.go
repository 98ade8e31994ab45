package progress

import "time"

// Progress is the enrollment record linking a user to a course, plus the
// user's completion state. Its existence is what the enrollment guard
// checks.
type Progress struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	CourseID         int64      `json:"course_id"`
	CompletedLessons int        `json:"completed_lessons"`
	TotalLessons     int        `json:"total_lessons"`
	Percent          float64    `json:"percent"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CourseStats is the aggregated read model refreshed by background jobs.
type CourseStats struct {
	CourseID    int64     `json:"course_id"`
	Enrolled    int       `json:"enrolled"`
	Completed   int       `json:"completed"`
	AvgPercent  float64   `json:"avg_percent"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
