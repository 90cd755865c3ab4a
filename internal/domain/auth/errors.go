package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrCredentialsMissing = errors.New("username and password are required")
	ErrInvalidRole        = errors.New("invalid role")
)
