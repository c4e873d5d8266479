package repository

import "errors"

// Common repository errors
var (
	// ErrMeetingNotFound is returned when a meeting is not found
	ErrMeetingNotFound = errors.New("meeting not found")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when a task id does not belong to the
	// project being updated
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
)
