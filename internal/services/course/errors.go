package course

import "errors"

// Domain errors for course service
var (
	// Validation errors
	ErrEmptyTitle         = errors.New("course title cannot be empty")
	ErrTitleTooLong       = errors.New("course title cannot exceed 60 characters")
	ErrDescriptionTooLong = errors.New("course description cannot exceed 300 characters")
	ErrInvalidCourseID    = errors.New("invalid course ID")

	// Business logic errors
	ErrCourseNotFound = errors.New("course not found")
)
