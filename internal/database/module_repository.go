package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
)

var moduleTable = &chainTable[*models.Module]{
	name:     "modules",
	groupCol: "course_id",
	payload:  []string{"title", "description", "status", "created_at", "updated_at"},
	scan:     scanModule,
	values: func(m *models.Module) []any {
		return []any{m.Title, m.Description, string(m.Status), m.CreatedAt, m.UpdatedAt}
	},
}

func scanModule(row scanner) (*models.Module, error) {
	m := &models.Module{}
	var prevID, nextID sql.NullString
	var status string
	if err := row.Scan(&m.ID, &m.GroupID, &prevID, &nextID,
		&m.Title, &m.Description, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.PrevID = stringPtr(prevID)
	m.NextID = stringPtr(nextID)
	m.Status = models.ModuleStatus(status)
	return m, nil
}

// ModuleRepo stores modules. It implements sequence.Store so the engine can
// keep each course's modules chained.
type ModuleRepo struct {
	*chainRepo[*models.Module]
}

var _ sequence.Store[*models.Module] = (*ModuleRepo)(nil)

// NewModuleRepo creates a module repository
func NewModuleRepo(db *sql.DB) *ModuleRepo {
	return &ModuleRepo{chainRepo: newChainRepo(db, moduleTable)}
}

// UpdateDetails changes the payload of a module. Chain references cannot be
// changed through this method.
func (r *ModuleRepo) UpdateDetails(ctx context.Context, id, title, description string, status models.ModuleStatus) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE modules SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`,
		title, description, string(status), now(), id)
	if err != nil {
		return fmt.Errorf("failed to update module %s: %w", id, err)
	}
	return requireOneRow(result, id)
}

// CountByCourse returns the number of modules in a course
func (r *ModuleRepo) CountByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM modules WHERE course_id = ?`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count modules for course %s: %w", courseID, err)
	}
	return count, nil
}
