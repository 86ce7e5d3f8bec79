package cli

import (
	"database/sql"
	"testing"

	"github.com/thenoetrevino/tramo/internal/app"
	"github.com/thenoetrevino/tramo/internal/logging"
	"github.com/thenoetrevino/tramo/internal/testutil"
)

// SetupCLITest creates an in-memory DB and returns both the DB and App instance
// This function is only for CLI tests and is isolated in a separate package
// to avoid import cycles when service tests import testutil
func SetupCLITest(t *testing.T) (*sql.DB, *app.App) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	// Note: EventPublisher is nil - event publishing is tested elsewhere
	appInstance := app.New(db, app.WithLogger(logging.Discard()))

	return db, appInstance
}

// CreateTestCourse wraps testutil.CreateTestCourse for CLI tests
func CreateTestCourse(t *testing.T, db *sql.DB, title string) string {
	t.Helper()
	return testutil.CreateTestCourse(t, db, title)
}

// CreateTestModule wraps testutil.CreateTestModule for CLI tests
// The module is appended to the end of the course
func CreateTestModule(t *testing.T, db *sql.DB, courseID, title string) string {
	t.Helper()
	return testutil.CreateTestModule(t, db, courseID, title)
}

// CreateTestProject wraps testutil.CreateTestProject for CLI tests
// The project is appended to the end of the module
func CreateTestProject(t *testing.T, db *sql.DB, moduleID, title string) string {
	t.Helper()
	return testutil.CreateTestProject(t, db, moduleID, title)
}
