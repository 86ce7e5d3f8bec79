package models

import (
	"time"

	"github.com/thenoetrevino/tramo/internal/sequence"
)

// Module is a chapter of a course. Modules of one course form a chain
// through the embedded Link, whose GroupID is the course id.
type Module struct {
	sequence.Link
	Title       string
	Description string
	Status      ModuleStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CourseID returns the course the module belongs to
func (m *Module) CourseID() string {
	return m.GroupID
}

// GetID exposes the id for quiet CLI output
func (m *Module) GetID() string {
	return m.ID
}

// Clone returns a deep copy
func (m *Module) Clone() *Module {
	c := *m
	c.Link = sequence.CloneLink(m.Link)
	return &c
}
