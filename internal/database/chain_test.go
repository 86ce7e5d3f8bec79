package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
)

func moduleOrder(t *testing.T, engine *sequence.Engine[*models.Module], courseID string) []string {
	t.Helper()
	modules, err := engine.List(context.Background(), courseID)
	require.NoError(t, err)
	return sequence.IDs(modules)
}

func TestModuleChainThroughEngine(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	engine := sequence.NewEngine[*models.Module]("module", NewModuleRepo(db))

	_, err := engine.Insert(ctx, newTestModule("A"), "c1", nil)
	require.NoError(t, err)
	_, err = engine.Insert(ctx, newTestModule("B"), "c1", sequence.Ref("A"))
	require.NoError(t, err)
	_, err = engine.Insert(ctx, newTestModule("C"), "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, moduleOrder(t, engine, "c1"))

	_, err = engine.Relocate(ctx, "B", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, moduleOrder(t, engine, "c1"))

	_, err = engine.Remove(ctx, "C")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"B", "A"}, moduleOrder(t, engine, "c1")); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, engine.Check(ctx, "c1"))
}

func TestChainRowsRoundTrip(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "A", "B")
	repo := NewModuleRepo(db)

	a, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "c1", a.CourseID())
	assert.Nil(t, a.PrevID)
	assert.Equal(t, "B", sequence.Deref(a.NextID))
	assert.Equal(t, "Module A", a.Title)
	assert.Equal(t, models.ModulePublished, a.Status)
	assert.False(t, a.CreatedAt.IsZero())

	_, err = repo.Get(ctx, "ghost")
	assert.ErrorIs(t, err, sequence.ErrNotFound)
}

func TestFindOneFilters(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "A", "B", "C")
	repo := NewModuleRepo(db)

	tests := []struct {
		name   string
		filter sequence.Filter
		want   string
	}{
		{"head", sequence.IsHead(), "A"},
		{"tail", sequence.IsTail(), "C"},
		{"follows", sequence.Follows("A"), "B"},
		{"precedes", sequence.Precedes("C"), "B"},
		{"by id", sequence.ByID("C"), "C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindOne(ctx, "c1", tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	_, err := repo.FindOne(ctx, "c1", sequence.Follows("C"))
	assert.ErrorIs(t, err, sequence.ErrNotFound)
	_, err = repo.FindOne(ctx, "other", sequence.IsHead())
	assert.ErrorIs(t, err, sequence.ErrNotFound)
}

func TestFindOneAmbiguous(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	repo := NewModuleRepo(db)
	require.NoError(t, repo.Create(ctx, withGroup(newTestModule("A"), "c1")))
	require.NoError(t, repo.Create(ctx, withGroup(newTestModule("B"), "c1")))

	_, err := repo.FindOne(ctx, "c1", sequence.IsHead())

	assert.ErrorIs(t, err, sequence.ErrAmbiguous)
}

func withGroup(m *models.Module, courseID string) *models.Module {
	m.GroupID = courseID
	return m
}

func TestAtomicRollsBackAllWrites(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	repo := NewModuleRepo(db)
	boom := errors.New("boom")

	err := repo.Atomic(ctx, "c1", func(tx sequence.Store[*models.Module]) error {
		if err := tx.Create(ctx, withGroup(newTestModule("A"), "c1")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	nodes, err := repo.FindAll(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestDanglingReferenceFailsAtCommit(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	repo := NewModuleRepo(db)

	err := repo.Atomic(ctx, "c1", func(tx sequence.Store[*models.Module]) error {
		m := withGroup(newTestModule("A"), "c1")
		m.NextID = sequence.Ref("ghost")
		return tx.Create(ctx, m)
	})

	assert.Error(t, err, "deferred foreign key must reject the commit")
}

func TestUpdateWritesOnlyReferences(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "A", "B")
	repo := NewModuleRepo(db)

	a, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	a.Title = "ignored"
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Module A", got.Title)

	err = repo.Update(ctx, withGroup(newTestModule("ghost"), "c1"))
	assert.ErrorIs(t, err, sequence.ErrNotFound)
}

func TestUpdateDetailsKeepsReferences(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "A", "B")
	repo := NewModuleRepo(db)

	require.NoError(t, repo.UpdateDetails(ctx, "A", "Intro", "Start here", models.ModuleDraft))

	got, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Title)
	assert.Equal(t, "Start here", got.Description)
	assert.Equal(t, models.ModuleDraft, got.Status)
	assert.Equal(t, "B", sequence.Deref(got.NextID))

	assert.ErrorIs(t, repo.UpdateDetails(ctx, "ghost", "x", "", models.ModuleDraft), sequence.ErrNotFound)
}

func TestProjectCounts(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "m1", "m2")
	createTestProjects(t, db, "m1", "p1", "p2")
	createTestProjects(t, db, "m2", "p3")
	projects := NewProjectRepo(db)

	n, err := projects.CountByModule(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = projects.CountByCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = NewModuleRepo(db).CountByCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestProjectChainIsScopedToModule(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()
	createTestCourse(t, db, "c1")
	createTestModules(t, db, "c1", "m1", "m2")
	createTestProjects(t, db, "m1", "p1", "p2")
	engine := sequence.NewEngine[*models.Project]("project", NewProjectRepo(db))

	_, err := engine.Insert(ctx, newTestProject("p3"), "m2", sequence.Ref("p1"))
	require.ErrorIs(t, err, sequence.ErrNotFound)

	_, err = engine.Insert(ctx, newTestProject("p3"), "m2", nil)
	require.NoError(t, err)
	projects, err := engine.List(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, sequence.IDs(projects))
}
