package progress

import "errors"

// Domain errors for progress service
var (
	// Validation errors
	ErrInvalidStudentID = errors.New("invalid student ID")
	ErrInvalidCourseID  = errors.New("invalid course ID")
	ErrInvalidProjectID = errors.New("invalid project ID")

	// Business logic errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrProjectNotFound = errors.New("project not found")
)
