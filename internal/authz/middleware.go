package authz

import (
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// Middleware wires authorization guards for HTTP handlers. The permission
// table and ownership resolver are injected at construction so routes share
// one immutable table.
type Middleware struct {
	Table    *PermissionTable
	Resolver *Resolver
	Logger   *slog.Logger
}

// Protect builds a chi middleware running the given guards in order. The
// first rejection terminates the chain and is written as the response.
// Requests without an authenticated identity are rejected outright.
func (m Middleware) Protect(guards ...Guard) func(http.Handler) http.Handler {
	chain := Chain(guards...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				shared.RespondError(w, http.StatusUnauthorized, shared.ErrNoToken.Error(), nil)
				return
			}
			d := chain.Evaluate(r, id)
			if !d.Allowed {
				if d.Err != nil && m.Logger != nil {
					m.Logger.Error("authorization check failed",
						slog.String("path", r.URL.Path),
						slog.Int64("user_id", id.ID),
						slog.Any("error", d.Err))
				}
				shared.RespondError(w, d.Status, d.Message, d.Fields)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows only identities whose role is in the declared set.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return m.Protect(m.RoleGuard(roles...))
}

// AdminOnly allows only admins.
func (m Middleware) AdminOnly() func(http.Handler) http.Handler {
	return m.RequireRole(RoleAdmin)
}

// RequirePermission allows only roles holding the exact permission token.
func (m Middleware) RequirePermission(token string) func(http.Handler) http.Handler {
	return m.Protect(m.PermissionGuard(token))
}

// RequireAnyPermission allows roles holding at least one of the tokens.
func (m Middleware) RequireAnyPermission(tokens ...string) func(http.Handler) http.Handler {
	return m.Protect(m.AnyPermissionGuard(tokens...))
}

// RequireSelfOrRole allows the route's target user acting on themselves, or
// any identity whose role is in the declared set.
func (m Middleware) RequireSelfOrRole(roles ...Role) func(http.Handler) http.Handler {
	return m.Protect(m.SelfOrRoleGuard(roles...))
}

// RequireOwnership allows the resource owner or an admin.
func (m Middleware) RequireOwnership(kind ResourceKind) func(http.Handler) http.Handler {
	return m.Protect(m.OwnershipGuard(kind))
}

// RequireCourseEnrollment allows admins, the course's instructor, and
// enrolled users.
func (m Middleware) RequireCourseEnrollment() func(http.Handler) http.Handler {
	return m.Protect(m.EnrollmentGuard())
}

// RequireCourseInstructor allows admins and the course's instructor.
func (m Middleware) RequireCourseInstructor() func(http.Handler) http.Handler {
	return m.Protect(m.OwnershipGuard(ResourceCourse))
}

// RoleGuard is the guard behind RequireRole.
func (m Middleware) RoleGuard(roles ...Role) Guard {
	return GuardFunc(func(r *http.Request, id Identity) Decision {
		for _, role := range roles {
			if id.Role == role {
				return Allow()
			}
		}
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		return RejectWith(http.StatusForbidden,
			"access denied, required roles: "+strings.Join(names, ", "),
			map[string]any{"required_roles": names})
	})
}

// PermissionGuard denies whenever the role lacks the token. Authentication
// alone is never sufficient.
func (m Middleware) PermissionGuard(token string) Guard {
	return GuardFunc(func(r *http.Request, id Identity) Decision {
		if m.Table.HasPermission(id.Role, token) {
			return Allow()
		}
		return RejectWith(http.StatusForbidden, "access denied, missing permission",
			map[string]any{"required_permission": token})
	})
}

// AnyPermissionGuard passes when the role holds at least one token.
func (m Middleware) AnyPermissionGuard(tokens ...string) Guard {
	return GuardFunc(func(r *http.Request, id Identity) Decision {
		if m.Table.HasAnyPermission(id.Role, tokens) {
			return Allow()
		}
		return RejectWith(http.StatusForbidden, "access denied, missing permission",
			map[string]any{"required_permissions": tokens})
	})
}

// SelfOrRoleGuard passes when the target user id equals the identity, or
// the identity's role is in the declared set.
func (m Middleware) SelfOrRoleGuard(roles ...Role) Guard {
	roleGuard := m.RoleGuard(roles...)
	return GuardFunc(func(r *http.Request, id Identity) Decision {
		targetID, d := resourceID(r)
		if !d.Allowed {
			return d
		}
		if targetID == id.ID {
			return Allow()
		}
		return roleGuard.Evaluate(r, id)
	})
}

// OwnershipGuard resolves the target resource from route parameters and
// runs the ownership check for the given kind.
func (m Middleware) OwnershipGuard(kind ResourceKind) Guard {
	return GuardFunc(func(r *http.Request, id Identity) Decision {
		resID, d := resourceID(r)
		if !d.Allowed {
			return d
		}
		return m.Resolver.Resolve(r.Context(), kind, resID, id)
	})
}

// EnrollmentGuard passes for admins, the course's instructor, and users
// with an enrollment record for the course.
func (m Middleware) EnrollmentGuard() Guard {
	return GuardFunc(func(r *http.Request, id Identity) Decision {
		courseID, d := resourceID(r)
		if !d.Allowed {
			return d
		}
		instructor := m.Resolver.Resolve(r.Context(), ResourceCourse, courseID, id)
		if instructor.Allowed {
			return Allow()
		}
		if instructor.Status != http.StatusForbidden {
			// Missing course or store failure: surface as-is.
			return instructor
		}
		enrolled := m.Resolver.Resolve(r.Context(), ResourceEnrollment, courseID, id)
		if enrolled.Allowed {
			return Allow()
		}
		if enrolled.Status == http.StatusForbidden {
			return Reject(http.StatusForbidden, "must be enrolled in this course")
		}
		return enrolled
	})
}

// resourceID extracts the target id from route parameters, first present
// wins: id, courseId, taskId, userId.
func resourceID(r *http.Request) (int64, Decision) {
	for _, key := range []string{"id", "courseId", "taskId", "userId"} {
		raw := chi.URLParam(r, key)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return 0, RejectWith(http.StatusBadRequest, "invalid resource id",
				map[string]any{"param": key})
		}
		return id, Allow()
	}
	return 0, Reject(http.StatusBadRequest, "missing resource id")
}
