package user

import "errors"

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrEmptyPasswordHash  = errors.New("password hash cannot be empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
