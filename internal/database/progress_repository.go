package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/tramo/internal/models"
)

// ProgressRepo stores per-student project progress.
type ProgressRepo struct {
	db *sql.DB
}

// NewProgressRepo creates a progress repository
func NewProgressRepo(db *sql.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

// Release creates a released row unless the student already has one for the
// project. It reports whether a row was created.
func (r *ProgressRepo) Release(ctx context.Context, studentID, projectID string) (bool, error) {
	ts := now()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO student_projects (student_id, project_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (student_id, project_id) DO NOTHING`,
		studentID, projectID, string(models.ProgressReleased), ts, ts)
	if err != nil {
		return false, fmt.Errorf("failed to release project %s for student %s: %w", projectID, studentID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetStatus creates or overwrites the row for the student and project
func (r *ProgressRepo) SetStatus(ctx context.Context, studentID, projectID string, status models.ProgressStatus) error {
	ts := now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO student_projects (student_id, project_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (student_id, project_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		studentID, projectID, string(status), ts, ts)
	if err != nil {
		return fmt.Errorf("failed to set progress of project %s for student %s: %w", projectID, studentID, err)
	}
	return nil
}

// Get returns the row for the student and project, or sql.ErrNoRows
func (r *ProgressRepo) Get(ctx context.Context, studentID, projectID string) (*models.StudentProject, error) {
	sp := &models.StudentProject{}
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT student_id, project_id, status, created_at, updated_at
		 FROM student_projects WHERE student_id = ? AND project_id = ?`,
		studentID, projectID,
	).Scan(&sp.StudentID, &sp.ProjectID, &status, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sp.Status = models.ProgressStatus(status)
	return sp, nil
}

// StatusByProject returns the student's status for every project of a course
// that has a row, keyed by project id.
func (r *ProgressRepo) StatusByProject(ctx context.Context, studentID, courseID string) (map[string]models.ProgressStatus, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT sp.project_id, sp.status
		 FROM student_projects sp
		 JOIN projects p ON p.id = sp.project_id
		 JOIN modules m ON m.id = p.module_id
		 WHERE sp.student_id = ? AND m.course_id = ?`,
		studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying progress for student %s: %w", studentID, err)
	}
	defer rows.Close()

	statuses := make(map[string]models.ProgressStatus)
	for rows.Next() {
		var projectID, status string
		if err := rows.Scan(&projectID, &status); err != nil {
			return nil, fmt.Errorf("scanning progress row: %w", err)
		}
		statuses[projectID] = models.ProgressStatus(status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress rows: %w", err)
	}
	return statuses, nil
}

// CountInCourse counts the student's rows in a course, optionally limited
// to the given statuses.
func (r *ProgressRepo) CountInCourse(ctx context.Context, studentID, courseID string, statuses ...models.ProgressStatus) (int, error) {
	query := `SELECT COUNT(*)
		 FROM student_projects sp
		 JOIN projects p ON p.id = sp.project_id
		 JOIN modules m ON m.id = p.module_id
		 WHERE sp.student_id = ? AND m.course_id = ?`
	args := []any{studentID, courseID}
	if len(statuses) > 0 {
		query += ` AND sp.status IN (` + strings.TrimSuffix(strings.Repeat("?, ", len(statuses)), ", ") + `)`
		for _, s := range statuses {
			args = append(args, string(s))
		}
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count progress for student %s: %w", studentID, err)
	}
	return count, nil
}
