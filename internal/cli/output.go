package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() string }); ok {
			fmt.Println(idGetter.GetID())
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	// Quiet mode relies on the exit code alone
	if f.Quiet {
		return nil
	}

	// Human-readable error
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
	}
	return nil
}

// Fail reports a service error to the user and returns it wrapped with the
// matching exit code
func (f *OutputFormatter) Fail(err error) error {
	class := classify(err)
	if class.exit == ExitError {
		slog.Error("command failed", "error", err)
	}
	if fmtErr := f.Error(class.code, err.Error()); fmtErr != nil {
		slog.Error("failed to format error message", "error", fmtErr)
	}
	return Exit(class.exit, err)
}

// FailUsage reports a usage error with a suggestion and returns it wrapped
// with ExitUsage
func (f *OutputFormatter) FailUsage(message, suggestion string) error {
	if fmtErr := f.ErrorWithSuggestion("USAGE_ERROR", message, suggestion); fmtErr != nil {
		slog.Error("failed to format error message", "error", fmtErr)
	}
	return Usage("%s", message)
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data any) error {
	// Default implementation - can be enhanced per data type
	fmt.Printf("%+v\n", data)
	return nil
}
