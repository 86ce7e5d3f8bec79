package cli

import (
	"encoding/json"
	"testing"
)

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}

	return result
}

// Data returns the "data" object of a successful JSON response
func Data(t *testing.T, output string) map[string]any {
	t.Helper()

	result := ParseJSON(t, output)
	if result["success"] != true {
		t.Fatalf("Expected success response, got: %s", output)
	}
	data, ok := result["data"].(map[string]any)
	if !ok {
		t.Fatalf("Expected data object in response, got: %s", output)
	}
	return data
}
