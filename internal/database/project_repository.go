package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
)

var projectTable = &chainTable[*models.Project]{
	name:     "projects",
	groupCol: "module_id",
	payload:  []string{"title", "description", "status", "author_id", "created_at", "updated_at"},
	scan:     scanProject,
	values: func(p *models.Project) []any {
		return []any{p.Title, p.Description, string(p.Status), p.AuthorID, p.CreatedAt, p.UpdatedAt}
	},
}

func scanProject(row scanner) (*models.Project, error) {
	p := &models.Project{}
	var prevID, nextID sql.NullString
	var status string
	if err := row.Scan(&p.ID, &p.GroupID, &prevID, &nextID,
		&p.Title, &p.Description, &status, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.PrevID = stringPtr(prevID)
	p.NextID = stringPtr(nextID)
	p.Status = models.ProjectStatus(status)
	return p, nil
}

// ProjectRepo stores projects. It implements sequence.Store so the engine
// can keep each module's projects chained.
type ProjectRepo struct {
	*chainRepo[*models.Project]
}

var _ sequence.Store[*models.Project] = (*ProjectRepo)(nil)

// NewProjectRepo creates a project repository
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{chainRepo: newChainRepo(db, projectTable)}
}

// UpdateDetails changes the payload of a project. Chain references cannot be
// changed through this method.
func (r *ProjectRepo) UpdateDetails(ctx context.Context, id, title, description string, status models.ProjectStatus) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE projects SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`,
		title, description, string(status), now(), id)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", id, err)
	}
	return requireOneRow(result, id)
}

// CountByModule returns the number of projects in a module
func (r *ProjectRepo) CountByModule(ctx context.Context, moduleID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE module_id = ?`, moduleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects for module %s: %w", moduleID, err)
	}
	return count, nil
}

// CountByCourse returns the number of projects across all modules of a course
func (r *ProjectRepo) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects p JOIN modules m ON m.id = p.module_id WHERE m.course_id = ?`,
		courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects for course %s: %w", courseID, err)
	}
	return count, nil
}
