package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoToken occurs when a request carries no bearer credential.
	ErrNoToken = errors.New("not authorized, no token")
	// ErrTokenFailed occurs when a bearer credential does not verify.
	ErrTokenFailed = errors.New("not authorized, token failed")
	// ErrDuplicateEmail occurs when registering an email that is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
)
