package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleInstructor))
	assert.True(t, ValidRole(RoleStudent))

	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole("Admin"))
	assert.False(t, ValidRole(""))
}

func TestRoleHierarchy(t *testing.T) {
	assert.Greater(t, Rank(RoleAdmin), Rank(RoleInstructor))
	assert.Greater(t, Rank(RoleInstructor), Rank(RoleStudent))
	assert.Greater(t, Rank(RoleStudent), Rank(Role("ghost")))
}

func TestHigherOrEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Role
		want bool
	}{
		{"admin over instructor", RoleAdmin, RoleInstructor, true},
		{"admin over student", RoleAdmin, RoleStudent, true},
		{"instructor over student", RoleInstructor, RoleStudent, true},
		{"same role", RoleInstructor, RoleInstructor, true},
		{"student below instructor", RoleStudent, RoleInstructor, false},
		{"unknown below student", Role("ghost"), RoleStudent, false},
		{"any role over unknown", RoleStudent, Role("ghost"), true},
		{"both unknown fail closed", Role("ghost"), Role("phantom"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HigherOrEqual(tc.a, tc.b))
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, NormalizeRole("ADMIN"))
	assert.Equal(t, RoleInstructor, NormalizeRole("  Instructor "))
	assert.Equal(t, RoleStudent, NormalizeRole("student"))
	assert.Equal(t, Role("manager"), NormalizeRole("Manager"))
}
