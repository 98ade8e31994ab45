package shared

// Core platform permissions.
const (
	PermUsersRead   = "users:read"
	PermUsersWrite  = "users:write"
	PermUsersDelete = "users:delete"

	PermRolesRead = "roles:read"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermUsersRead,
		PermUsersWrite,
		PermUsersDelete,
		PermRolesRead,
	}
}
