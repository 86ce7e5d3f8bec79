package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseCRUD(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCourseRepo(db)

	created := createTestCourse(t, db, "c1")
	createTestCourse(t, db, "c2")

	got, err := repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	courses, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "c1", courses[0].ID)

	require.NoError(t, repo.Update(ctx, "c1", "Renamed", "About"))
	got, err = repo.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "About", got.Description)

	require.NoError(t, repo.Delete(ctx, "c1"))
	_, err = repo.Get(ctx, "c1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCourseMissing(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCourseRepo(db)

	assert.ErrorIs(t, repo.Update(ctx, "ghost", "x", ""), sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, "ghost"), sql.ErrNoRows)
}

func TestDeleteCourseCascades(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "m1", "m2")
	createTestProjects(t, db, "m1", "p1", "p2")
	_, err := NewProgressRepo(db).Release(ctx, "s1", "p1")
	require.NoError(t, err)

	require.NoError(t, NewCourseRepo(db).Delete(ctx, "c1"))

	for _, table := range []string{"modules", "projects", "student_projects"} {
		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count))
		assert.Zero(t, count, table)
	}
}
