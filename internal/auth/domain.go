package auth

import "time"

// User represents an account record. PasswordHash is only populated by
// credential lookups; identity resolution never carries it.
type User struct {
	ID           int64
	Email        string
	Name         string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
