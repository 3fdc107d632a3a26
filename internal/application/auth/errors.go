package auth

import "errors"

var (
	ErrMissingFields      = errors.New("Missing required fields")
	ErrInvalidEmail       = errors.New("Invalid email format")
	ErrInvalidRole        = errors.New("Role must be producer or consumer")
	ErrUserExists         = errors.New("User already exists")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrNotAuthenticated   = errors.New("Not authenticated")
)
