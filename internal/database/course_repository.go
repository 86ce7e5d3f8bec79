package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/tramo/internal/models"
)

// CourseRepo handles all course-related database operations.
type CourseRepo struct {
	db *sql.DB
}

// NewCourseRepo creates a course repository
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

// Create inserts a course. The caller assigns the id.
func (r *CourseRepo) Create(ctx context.Context, c *models.Course) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// Get retrieves a course by its ID. A missing course yields sql.ErrNoRows.
func (r *CourseRepo) Get(ctx context.Context, id string) (*models.Course, error) {
	c := &models.Course{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, created_at, updated_at FROM courses WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all courses, oldest first
func (r *CourseRepo) List(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, created_at, updated_at FROM courses ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c := &models.Course{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course rows: %w", err)
	}
	return courses, nil
}

// Update changes the title and description of a course
func (r *CourseRepo) Update(ctx context.Context, id, title, description string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		title, description, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update course %s: %w", id, err)
	}
	return noRowsIfUnaffected(result)
}

// Delete removes a course. Its modules, projects and progress rows go with it.
func (r *CourseRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course %s: %w", id, err)
	}
	return noRowsIfUnaffected(result)
}

func noRowsIfUnaffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
