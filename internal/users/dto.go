package users

// CreateUserRequest is the admin user-creation payload.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin instructor student"`
}

// UpdateUserRequest carries partial updates. Role and activation changes
// are admin-only and rejected for self-service callers in the handler.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin instructor student"`
	IsActive *bool   `json:"is_active,omitempty"`
}
