package services

import "errors"

var (
	// ErrUsernameTaken is returned by Signup when the username is in use.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password; callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTaskNotFound is returned when no task with the id belongs to the
	// caller, whether or not it exists for someone else.
	ErrTaskNotFound = errors.New("task not found")
)
