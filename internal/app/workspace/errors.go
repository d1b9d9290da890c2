package workspace

import "errors"

var (
	// ErrUserNotFound is returned when an operation names a user id that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrProjectNotFound is returned when an operation names a project id that does not exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrTaskNotFound is returned when the project exists but the task id does not.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidArgument signals a missing required field or an unknown role.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidMinutes signals a time entry of zero or negative minutes.
	ErrInvalidMinutes = errors.New("minutes must be a positive whole number")
	// ErrInvalidCredentials is returned by Login when no user matches the email and password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
