package cli

import (
	"time"

	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
)

// CourseView is the JSON shape of a course
type CourseView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetID exposes the id for quiet output
func (v CourseView) GetID() string { return v.ID }

// NewCourseView converts a course for output
func NewCourseView(c *models.Course) CourseView {
	return CourseView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ModuleView is the JSON shape of a module
type ModuleView struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	PrevID      string    `json:"prev_id,omitempty"`
	NextID      string    `json:"next_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetID exposes the id for quiet output
func (v ModuleView) GetID() string { return v.ID }

// NewModuleView converts a module for output
func NewModuleView(m *models.Module) ModuleView {
	return ModuleView{
		ID:          m.ID,
		CourseID:    m.CourseID(),
		PrevID:      sequence.Deref(m.PrevID),
		NextID:      sequence.Deref(m.NextID),
		Title:       m.Title,
		Description: m.Description,
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ProjectView is the JSON shape of a project
type ProjectView struct {
	ID          string    `json:"id"`
	ModuleID    string    `json:"module_id"`
	PrevID      string    `json:"prev_id,omitempty"`
	NextID      string    `json:"next_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	AuthorID    string    `json:"author_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GetID exposes the id for quiet output
func (v ProjectView) GetID() string { return v.ID }

// NewProjectView converts a project for output
func NewProjectView(p *models.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		ModuleID:    p.ModuleID(),
		PrevID:      sequence.Deref(p.PrevID),
		NextID:      sequence.Deref(p.NextID),
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		AuthorID:    p.AuthorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ModuleViews converts a module list, keeping order
func ModuleViews(modules []*models.Module) []ModuleView {
	views := make([]ModuleView, 0, len(modules))
	for _, m := range modules {
		views = append(views, NewModuleView(m))
	}
	return views
}

// ProjectViews converts a project list, keeping order
func ProjectViews(projects []*models.Project) []ProjectView {
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, NewProjectView(p))
	}
	return views
}

// Neighbour renders an optional chain reference, "-" for none
func Neighbour(id *string) string {
	if id == nil {
		return "-"
	}
	return sequence.Deref(id)
}
