package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

func TestHasPermission(t *testing.T) {
	table := DefaultTable()

	assert.True(t, table.HasPermission(RoleAdmin, shared.PermUsersDelete))
	assert.True(t, table.HasPermission(RoleInstructor, shared.PermCoursesWrite))
	assert.True(t, table.HasPermission(RoleStudent, shared.PermQuizAttempt))

	assert.False(t, table.HasPermission(RoleStudent, shared.PermCoursesWrite))
	assert.False(t, table.HasPermission(RoleInstructor, shared.PermUsersDelete))
}

func TestHasPermissionFailsClosed(t *testing.T) {
	table := DefaultTable()

	assert.False(t, table.HasPermission(Role("ghost"), shared.PermCoursesRead))
	assert.False(t, table.HasPermission("", shared.PermCoursesRead))
	assert.False(t, table.HasPermission(RoleAdmin, ""))
	assert.False(t, table.HasPermission(RoleAdmin, "courses:fly"))

	var nilTable *PermissionTable
	assert.False(t, nilTable.HasPermission(RoleAdmin, shared.PermCoursesRead))

	empty := NewPermissionTable(nil)
	assert.False(t, empty.HasPermission(RoleAdmin, shared.PermCoursesRead))
}

// Every role's grant set is a superset of the role below it, so granting a
// permission to students implicitly grants it upward.
func TestDefaultTableSupersets(t *testing.T) {
	table := DefaultTable()

	for _, p := range table.Grants(RoleStudent) {
		assert.True(t, table.HasPermission(RoleInstructor, p), "instructor missing %s", p)
	}
	for _, p := range table.Grants(RoleInstructor) {
		assert.True(t, table.HasPermission(RoleAdmin, p), "admin missing %s", p)
	}
}

func TestDefaultTableCoversAllScopes(t *testing.T) {
	table := DefaultTable()
	scopes := append(shared.CoreScopes(), shared.AllLearningScopes()...)
	require.NotEmpty(t, scopes)
	for _, p := range scopes {
		assert.True(t, table.HasPermission(RoleAdmin, p), "admin missing %s", p)
	}
}

func TestHasAnyPermission(t *testing.T) {
	table := DefaultTable()

	assert.True(t, table.HasAnyPermission(RoleStudent, []string{shared.PermUsersDelete, shared.PermQuizAttempt}))
	assert.False(t, table.HasAnyPermission(RoleStudent, []string{shared.PermUsersDelete, shared.PermUsersWrite}))
	assert.False(t, table.HasAnyPermission(RoleAdmin, nil))
}

func TestHasAllPermissions(t *testing.T) {
	table := DefaultTable()

	assert.True(t, table.HasAllPermissions(RoleInstructor, []string{shared.PermCoursesRead, shared.PermCoursesWrite}))
	assert.False(t, table.HasAllPermissions(RoleInstructor, []string{shared.PermCoursesWrite, shared.PermUsersDelete}))
	assert.False(t, table.HasAllPermissions(RoleAdmin, []string{}))
}

func TestNewPermissionTableSkipsEmptyTokens(t *testing.T) {
	table := NewPermissionTable(map[Role][]string{
		RoleStudent: {"", "tasks:read"},
	})
	assert.True(t, table.HasPermission(RoleStudent, "tasks:read"))
	assert.False(t, table.HasPermission(RoleStudent, ""))
	assert.Len(t, table.Grants(RoleStudent), 1)
}
