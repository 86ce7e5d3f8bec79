package module

import "errors"

// Domain errors for module service
var (
	// Validation errors
	ErrEmptyTitle         = errors.New("module title cannot be empty")
	ErrTitleTooLong       = errors.New("module title cannot exceed 60 characters")
	ErrDescriptionTooLong = errors.New("module description cannot exceed 300 characters")
	ErrInvalidModuleID    = errors.New("invalid module ID")
	ErrInvalidCourseID    = errors.New("invalid course ID")
	ErrInvalidStatus      = errors.New("invalid module status")

	// Business logic errors
	ErrModuleNotFound      = errors.New("module not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrPredecessorNotFound = errors.New("module to place after not found in this course")
	ErrModuleHasProjects   = errors.New("cannot delete module with projects")
)
