package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
	_ "modernc.org/sqlite"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// Every connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := runMigrations(context.Background(), db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// ============================================================================
// FIXTURES
// ============================================================================

func createTestCourse(t *testing.T, db *sql.DB, id string) *models.Course {
	t.Helper()
	ts := now()
	c := &models.Course{ID: id, Title: "Course " + id, CreatedAt: ts, UpdatedAt: ts}
	if err := NewCourseRepo(db).Create(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}
	return c
}

func newTestModule(id string) *models.Module {
	ts := now()
	return &models.Module{
		Link:      sequence.Link{ID: id},
		Title:     "Module " + id,
		Status:    models.ModulePublished,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func newTestProject(id string) *models.Project {
	ts := now()
	return &models.Project{
		Link:      sequence.Link{ID: id},
		Title:     "Project " + id,
		Status:    models.ProjectPublished,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// createTestModules appends modules to a course in the given order
func createTestModules(t *testing.T, db *sql.DB, courseID string, ids ...string) {
	t.Helper()
	engine := sequence.NewEngine[*models.Module]("module", NewModuleRepo(db))
	var after *string
	for _, id := range ids {
		if _, err := engine.Insert(context.Background(), newTestModule(id), courseID, after); err != nil {
			t.Fatalf("Failed to create test module %s: %v", id, err)
		}
		after = sequence.Ref(id)
	}
}

// createTestProjects appends projects to a module in the given order
func createTestProjects(t *testing.T, db *sql.DB, moduleID string, ids ...string) {
	t.Helper()
	engine := sequence.NewEngine[*models.Project]("project", NewProjectRepo(db))
	var after *string
	for _, id := range ids {
		if _, err := engine.Insert(context.Background(), newTestProject(id), moduleID, after); err != nil {
			t.Fatalf("Failed to create test project %s: %v", id, err)
		}
		after = sequence.Ref(id)
	}
}
