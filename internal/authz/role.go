package authz

import "strings"

// Role is a coarse actor category driving default permissions.
type Role string

// Canonical roles, ordered by privilege.
const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

// roleRanks orders roles by privilege. Unknown roles rank 0, below every
// recognized role, so comparisons against them always fail closed.
var roleRanks = map[Role]int{
	RoleStudent:    1,
	RoleInstructor: 2,
	RoleAdmin:      3,
}

// Roles returns all canonical roles in descending privilege order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleInstructor, RoleStudent}
}

// ValidRole reports whether candidate is one of the canonical roles.
func ValidRole(candidate Role) bool {
	_, ok := roleRanks[candidate]
	return ok
}

// Rank returns the privilege rank of a role. Unrecognized roles rank 0.
func Rank(role Role) int {
	return roleRanks[role]
}

// HigherOrEqual reports whether a holds at least the privilege of b.
// Two unrecognized roles both rank 0 and compare false.
func HigherOrEqual(a, b Role) bool {
	ra, rb := roleRanks[a], roleRanks[b]
	if ra == 0 && rb == 0 {
		return false
	}
	return ra >= rb
}

// NormalizeRole lower-cases and trims a raw role string. Callers normalize
// once at the identity-resolution boundary; the evaluator itself performs
// exact-match lookups.
func NormalizeRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}
