package testutil

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/thenoetrevino/tramo/internal/database"
	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
	"github.com/thenoetrevino/tramo/internal/types"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const TestAppKey ContextKey = "testApp"

// SetupTestDB creates an in-memory database with full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// CreateTestCourse inserts a course and returns its ID
func CreateTestCourse(t *testing.T, db *sql.DB, title string) string {
	t.Helper()
	ts := time.Now().UTC().Truncate(time.Second)
	c := &models.Course{ID: types.NewID(), Title: title, CreatedAt: ts, UpdatedAt: ts}
	if err := database.NewCourseRepo(db).Create(context.Background(), c); err != nil {
		t.Fatalf("Failed to create test course: %v", err)
	}
	return c.ID
}

// CreateTestModule appends a published module to the course and returns its ID
func CreateTestModule(t *testing.T, db *sql.DB, courseID, title string) string {
	t.Helper()
	ts := time.Now().UTC().Truncate(time.Second)
	m := &models.Module{
		Link:      sequence.Link{ID: types.NewID()},
		Title:     title,
		Status:    models.ModulePublished,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	appendNode(t, database.NewModuleRepo(db), "module", m, courseID)
	return m.ID
}

// CreateTestProject appends a published project to the module and returns its ID
func CreateTestProject(t *testing.T, db *sql.DB, moduleID, title string) string {
	t.Helper()
	ts := time.Now().UTC().Truncate(time.Second)
	p := &models.Project{
		Link:      sequence.Link{ID: types.NewID()},
		Title:     title,
		Status:    models.ProjectPublished,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	appendNode(t, database.NewProjectRepo(db), "project", p, moduleID)
	return p.ID
}

// appendNode inserts n after the current tail of groupID
func appendNode[N sequence.Node](t *testing.T, store sequence.Store[N], kind string, n N, groupID string) {
	t.Helper()
	ctx := context.Background()

	var after *string
	tail, err := store.FindOne(ctx, groupID, sequence.IsTail())
	switch {
	case err == nil:
		after = sequence.Ref(tail.Chain().ID)
	case !errors.Is(err, sequence.ErrNotFound):
		t.Fatalf("Failed to find %s tail: %v", kind, err)
	}

	if _, err := sequence.NewEngine(kind, store).Insert(ctx, n, groupID, after); err != nil {
		t.Fatalf("Failed to create test %s: %v", kind, err)
	}
}

// SetProgress writes a progress row directly
func SetProgress(t *testing.T, db *sql.DB, studentID, projectID string, status models.ProgressStatus) {
	t.Helper()
	if err := database.NewProgressRepo(db).SetStatus(context.Background(), studentID, projectID, status); err != nil {
		t.Fatalf("Failed to set progress: %v", err)
	}
}
