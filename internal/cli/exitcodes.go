package cli

import (
	"errors"
	"fmt"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Course, module or project not found, or a predecessor
	// that is not part of the target course or module.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed stored data.
	// Use for: Corrupt chains that need a repair.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty or oversized titles, invalid status values,
	// or a node placed after itself.
	ExitValidation = 5
)

// ExitErr carries the process exit code of a failed command. The message
// has already been shown to the user when it is returned.
type ExitErr struct {
	Code int
	Err  error
}

func (e *ExitErr) Error() string {
	return e.Err.Error()
}

func (e *ExitErr) Unwrap() error {
	return e.Err
}

// Exit wraps err with an exit code
func Exit(code int, err error) error {
	return &ExitErr{Code: code, Err: err}
}

// Usage reports a usage error with the given message
func Usage(format string, args ...any) error {
	return Exit(ExitUsage, fmt.Errorf(format, args...))
}

// ExitCode returns the code main should exit with for err
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitErr
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}
