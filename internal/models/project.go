package models

import (
	"time"

	"github.com/thenoetrevino/tramo/internal/sequence"
)

// Project is a unit of work inside a module. Projects of one module form a
// chain through the embedded Link, whose GroupID is the module id.
type Project struct {
	sequence.Link
	Title       string
	Description string
	Status      ProjectStatus
	AuthorID    string // Opaque id of the author, empty when unknown
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ModuleID returns the module the project belongs to
func (p *Project) ModuleID() string {
	return p.GroupID
}

// GetID exposes the id for quiet CLI output
func (p *Project) GetID() string {
	return p.ID
}

// Clone returns a deep copy
func (p *Project) Clone() *Project {
	c := *p
	c.Link = sequence.CloneLink(p.Link)
	return &c
}
