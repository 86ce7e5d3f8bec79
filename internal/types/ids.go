package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Identifiers are random UUID strings. Courses, modules, projects and
// students all share the same format so any of them can be passed around as
// an opaque string.

// NewID returns a fresh identifier
func NewID() string {
	return uuid.NewString()
}

// ParseID normalizes s and rejects anything that is not a UUID
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid id '%s': %w", s, err)
	}
	return id.String(), nil
}
