package authz

import (
	"github.com/pathlight-lms/pathlight/internal/shared"
)

// PermissionTable maps each role to its permission set. It is built once at
// startup and injected wherever permission checks run; it is never mutated
// afterwards, so concurrent reads are safe without locking.
type PermissionTable struct {
	grants map[Role]map[string]struct{}
}

// NewPermissionTable builds an immutable table from role grant lists.
func NewPermissionTable(grants map[Role][]string) *PermissionTable {
	t := &PermissionTable{grants: make(map[Role]map[string]struct{}, len(grants))}
	for role, perms := range grants {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			if p == "" {
				continue
			}
			set[p] = struct{}{}
		}
		t.grants[role] = set
	}
	return t
}

// DefaultTable returns the built-in role grants. Admin holds every
// permission; instructor holds the learning scopes plus user reads;
// student holds read and self-service scopes only.
func DefaultTable() *PermissionTable {
	student := []string{
		shared.PermCoursesRead,
		shared.PermLessonsRead,
		shared.PermQuizRead,
		shared.PermQuizAttempt,
		shared.PermProgressRead,
		shared.PermEnrollWrite,
		shared.PermTasksRead,
		shared.PermTasksWrite,
	}

	instructor := append([]string{
		shared.PermUsersRead,
		shared.PermCoursesWrite,
		shared.PermLessonsWrite,
		shared.PermQuizWrite,
		shared.PermQuizGrade,
		shared.PermProgressWrite,
	}, student...)

	admin := append([]string{
		shared.PermUsersWrite,
		shared.PermUsersDelete,
		shared.PermRolesRead,
		shared.PermCoursesDelete,
	}, instructor...)

	return NewPermissionTable(map[Role][]string{
		RoleStudent:    student,
		RoleInstructor: instructor,
		RoleAdmin:      admin,
	})
}

// HasPermission reports whether the role holds the exact permission token.
// Absent roles, unknown roles, and empty tokens are all false; the check
// never panics.
func (t *PermissionTable) HasPermission(role Role, permission string) bool {
	if t == nil || role == "" || permission == "" {
		return false
	}
	set, ok := t.grants[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// HasAnyPermission reports whether the role holds at least one of the
// tokens. An empty token list is false.
func (t *PermissionTable) HasAnyPermission(role Role, permissions []string) bool {
	if len(permissions) == 0 {
		return false
	}
	for _, p := range permissions {
		if t.HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role holds every token. An empty
// token list is false.
func (t *PermissionTable) HasAllPermissions(role Role, permissions []string) bool {
	if len(permissions) == 0 {
		return false
	}
	for _, p := range permissions {
		if !t.HasPermission(role, p) {
			return false
		}
	}
	return true
}

// Grants returns a copy of the permission tokens held by a role.
func (t *PermissionTable) Grants(role Role) []string {
	if t == nil {
		return nil
	}
	set, ok := t.grants[role]
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	return perms
}
