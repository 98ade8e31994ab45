package shared

// Learning permissions declared for authorization checks.
const (
	// Course permissions
	PermCoursesRead   = "courses:read"
	PermCoursesWrite  = "courses:write"
	PermCoursesDelete = "courses:delete"

	// Lesson permissions
	PermLessonsRead  = "lessons:read"
	PermLessonsWrite = "lessons:write"

	// Quiz permissions
	PermQuizRead    = "quiz:read"
	PermQuizWrite   = "quiz:write"
	PermQuizAttempt = "quiz:attempt"
	PermQuizGrade   = "quiz:grade"

	// Progress permissions
	PermProgressRead  = "progress:read"
	PermProgressWrite = "progress:write"
	PermEnrollWrite   = "enrollments:write"

	// Task permissions
	PermTasksRead  = "tasks:read"
	PermTasksWrite = "tasks:write"
)

// CourseScopes lists all permissions related to courses and lessons.
func CourseScopes() []string {
	return []string{
		PermCoursesRead,
		PermCoursesWrite,
		PermCoursesDelete,
		PermLessonsRead,
		PermLessonsWrite,
	}
}

// QuizScopes lists all permissions related to quizzes.
func QuizScopes() []string {
	return []string{
		PermQuizRead,
		PermQuizWrite,
		PermQuizAttempt,
		PermQuizGrade,
	}
}

// ProgressScopes lists all permissions related to progress tracking.
func ProgressScopes() []string {
	return []string{
		PermProgressRead,
		PermProgressWrite,
		PermEnrollWrite,
	}
}

// TaskScopes lists all permissions related to personal tasks.
func TaskScopes() []string {
	return []string{
		PermTasksRead,
		PermTasksWrite,
	}
}

// AllLearningScopes returns every learning-module permission.
func AllLearningScopes() []string {
	scopes := CourseScopes()
	scopes = append(scopes, QuizScopes()...)
	scopes = append(scopes, ProgressScopes()...)
	scopes = append(scopes, TaskScopes()...)
	return scopes
}
