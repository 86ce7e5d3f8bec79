package project

import "errors"

// Domain errors for project service
var (
	// Validation errors
	ErrEmptyTitle         = errors.New("project title cannot be empty")
	ErrTitleTooLong       = errors.New("project title cannot exceed 60 characters")
	ErrDescriptionTooLong = errors.New("project description cannot exceed 300 characters")
	ErrInvalidProjectID   = errors.New("invalid project ID")
	ErrInvalidModuleID    = errors.New("invalid module ID")
	ErrInvalidStatus      = errors.New("invalid project status")

	// Business logic errors
	ErrProjectNotFound     = errors.New("project not found")
	ErrModuleNotFound      = errors.New("module not found")
	ErrPredecessorNotFound = errors.New("project to place after not found in this module")
)
