package models

import "time"

// Course is the top-level unit of the curriculum. It owns one chain of modules.
type Course struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetID exposes the id for quiet CLI output
func (c *Course) GetID() string {
	return c.ID
}
