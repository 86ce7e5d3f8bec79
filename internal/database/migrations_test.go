package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, runMigrations(ctx, db))

	var version int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestRunMigrationsRejectsNewerSchema(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	_, err := db.ExecContext(ctx, "PRAGMA user_version = 99")
	require.NoError(t, err)

	err = runMigrations(ctx, db)

	assert.ErrorContains(t, err, "newer than supported")
}

func TestInitDBCreatesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "tramo.db")

	db, err := InitDB(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
	assert.FileExists(t, path)
}

func TestDataPersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tramo.db")

	db, err := InitDB(ctx, path)
	require.NoError(t, err)
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "m1", "m2")
	require.NoError(t, db.Close())

	db, err = InitDB(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	nodes, err := NewModuleRepo(db).FindAll(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}
