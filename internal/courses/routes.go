package courses

import (
	"github.com/go-chi/chi/v5"

	"github.com/pathlight-lms/pathlight/internal/authz"
	"github.com/pathlight-lms/pathlight/internal/shared"
)

// MountRoutes registers course routes. Reads need the read permission,
// mutation goes through the instructor-of-course check, and content reads
// require enrollment.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermCoursesRead))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(shared.PermCoursesWrite))
		r.Post("/", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCourseInstructor())
		r.Put("/{id}", h.Update)
		r.Post("/{courseId}/lessons", h.AddLesson)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Protect(
			h.authz.PermissionGuard(shared.PermCoursesDelete),
			h.authz.OwnershipGuard(authz.ResourceCourse),
		))
		r.Delete("/{id}", h.Delete)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireCourseEnrollment())
		r.Get("/{courseId}/lessons", h.Lessons)
	})
}
