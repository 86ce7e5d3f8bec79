package module

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tramo/internal/events"
	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/sequence"
	"github.com/thenoetrevino/tramo/internal/testutil"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func setup(t *testing.T) (*sql.DB, Service, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	courseID := testutil.CreateTestCourse(t, db, "Backend")
	return db, NewService(db, nil), courseID
}

// create appends modules titled by the given names and returns their ids
func create(t *testing.T, svc Service, courseID string, titles ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(titles))
	after := ""
	for _, title := range titles {
		m, err := svc.CreateModule(context.Background(), CreateModuleRequest{
			CourseID: courseID,
			Title:    title,
			AfterID:  after,
		})
		require.NoError(t, err)
		ids = append(ids, m.ID)
		after = m.ID
	}
	return ids
}

func titles(t *testing.T, svc Service, courseID string) []string {
	t.Helper()
	modules, err := svc.ListModules(context.Background(), courseID)
	require.NoError(t, err)
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		out = append(out, m.Title)
	}
	return out
}

func requireTitles(t *testing.T, svc Service, courseID string, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, titles(t, svc, courseID), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("module order mismatch (-want +got):\n%s", diff)
	}
	require.NoError(t, svc.CheckModules(context.Background(), courseID))
}

// ============================================================================
// TEST CASES
// ============================================================================

func TestCreateModule(t *testing.T) {
	t.Parallel()
	_, svc, courseID := setup(t)

	m, err := svc.CreateModule(context.Background(), CreateModuleRequest{
		CourseID:    courseID,
		Title:       "Basics",
		Description: "Start here",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, courseID, m.CourseID())
	assert.Equal(t, models.ModulePublished, m.Status)
	assert.Nil(t, m.PrevID)
	assert.Nil(t, m.NextID)
}

func TestCreateModulePositions(t *testing.T) {
	t.Parallel()
	_, svc, courseID := setup(t)
	ctx := context.Background()
	ids := create(t, svc, courseID, "A", "B", "C")

	_, err := svc.CreateModule(ctx, CreateModuleRequest{CourseID: courseID, Title: "Head"})
	require.NoError(t, err)
	_, err = svc.CreateModule(ctx, CreateModuleRequest{CourseID: courseID, Title: "AfterA", AfterID: ids[0]})
	require.NoError(t, err)
	_, err = svc.CreateModule(ctx, CreateModuleRequest{CourseID: courseID, Title: "Tail", AfterID: ids[2]})
	require.NoError(t, err)

	requireTitles(t, svc, courseID, "Head", "A", "AfterA", "B", "C", "Tail")
}

func TestCreateModuleValidation(t *testing.T) {
	t.Parallel()
	_, svc, courseID := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateModuleRequest
		want error
	}{
		{"empty title", CreateModuleRequest{CourseID: courseID}, ErrEmptyTitle},
		{"long title", CreateModuleRequest{CourseID: courseID, Title: strings.Repeat("x", 61)}, ErrTitleTooLong},
		{"long description", CreateModuleRequest{CourseID: courseID, Title: "ok", Description: strings.Repeat("x", 301)}, ErrDescriptionTooLong},
		{"bad status", CreateModuleRequest{CourseID: courseID, Title: "ok", Status: "archived"}, ErrInvalidStatus},
		{"no course", CreateModuleRequest{Title: "ok"}, ErrInvalidCourseID},
		{"unknown course", CreateModuleRequest{CourseID: "missing", Title: "ok"}, ErrCourseNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateModule(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateModuleAfterUnknownModule(t *testing.T) {
	t.Parallel()
	db, svc, courseID := setup(t)
	ctx := context.Background()
	create(t, svc, courseID, "A")
	otherCourse := testutil.CreateTestCourse(t, db, "Other")
	foreign := create(t, svc, otherCourse, "X")

	_, err := svc.CreateModule(ctx, CreateModuleRequest{CourseID: courseID, Title: "B", AfterID: "missing"})
	assert.ErrorIs(t, err, ErrPredecessorNotFound)
	assert.ErrorIs(t, err, sequence.ErrNotFound)

	_, err = svc.CreateModule(ctx, CreateModuleRequest{CourseID: courseID, Title: "B", AfterID: foreign[0]})
	assert.ErrorIs(t, err, ErrPredecessorNotFound)

	requireTitles(t, svc, courseID, "A")
}

func TestReorderModule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		move  int
		after int // index of the predecessor, -1 for head
		want  []string
	}{
		{"tail to head", 3, -1, []string{"D", "A", "B", "C"}},
		{"head to tail", 0, 3, []string{"B", "C", "D", "A"}},
		{"middle forward", 1, 2, []string{"A", "C", "B", "D"}},
		{"middle backward", 2, 0, []string{"A", "C", "B", "D"}},
		{"same place", 1, 0, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, svc, courseID := setup(t)
			ids := create(t, svc, courseID, "A", "B", "C", "D")

			after := ""
			if tt.after >= 0 {
				after = ids[tt.after]
			}
			moved, err := svc.ReorderModule(context.Background(), ReorderModuleRequest{ID: ids[tt.move], AfterID: after})
			require.NoError(t, err)
			assert.Equal(t, ids[tt.move], moved.ID)

			requireTitles(t, svc, courseID, tt.want...)
		})
	}
}

func TestReorderModuleErrors(t *testing.T) {
	t.Parallel()
	_, svc, courseID := setup(t)
	ctx := context.Background()
	ids := create(t, svc, courseID, "A", "B")

	_, err := svc.ReorderModule(ctx, ReorderModuleRequest{ID: ids[0], AfterID: ids[0]})
	assert.ErrorIs(t, err, sequence.ErrSelfReference)

	_, err = svc.ReorderModule(ctx, ReorderModuleRequest{ID: "missing"})
	assert.ErrorIs(t, err, ErrModuleNotFound)

	_, err = svc.ReorderModule(ctx, ReorderModuleRequest{ID: ids[0], AfterID: "missing"})
	assert.ErrorIs(t, err, ErrPredecessorNotFound)

	requireTitles(t, svc, courseID, "A", "B")
}

func TestUpdateModuleDetailsKeepsPosition(t *testing.T) {
	t.Parallel()
	_, svc, courseID := setup(t)
	ctx := context.Background()
	ids := create(t, svc, courseID, "A", "B", "C")

	title := "Renamed"
	status := "draft"
	updated, err := svc.UpdateModuleDetails(ctx, UpdateModuleDetailsRequest{ID: ids[1], Title: &title, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, models.ModuleDraft, updated.Status)
	assert.Equal(t, ids[0], sequence.Deref(updated.PrevID))
	assert.Equal(t, ids[2], sequence.Deref(updated.NextID))
	requireTitles(t, svc, courseID, "A", "Renamed", "C")

	bad := "archived"
	_, err = svc.UpdateModuleDetails(ctx, UpdateModuleDetailsRequest{ID: ids[1], Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateModuleDetails(ctx, UpdateModuleDetailsRequest{ID: "missing", Title: &title})
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestListPublishedModules(t *testing.T) {
	t.Parallel()
	_, svc, courseID := setup(t)
	ctx := context.Background()
	ids := create(t, svc, courseID, "A", "B", "C")

	draft := "draft"
	_, err := svc.UpdateModuleDetails(ctx, UpdateModuleDetailsRequest{ID: ids[0], Status: &draft})
	require.NoError(t, err)

	published, err := svc.ListPublishedModules(ctx, courseID)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "B", published[0].Title)
	assert.Equal(t, "C", published[1].Title)
}

func TestListModulesUnknownCourse(t *testing.T) {
	t.Parallel()
	_, svc, _ := setup(t)

	_, err := svc.ListModules(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDeleteModule(t *testing.T) {
	t.Parallel()
	db, svc, courseID := setup(t)
	ctx := context.Background()
	ids := create(t, svc, courseID, "A", "B", "C")

	require.NoError(t, svc.DeleteModule(ctx, ids[1]))
	requireTitles(t, svc, courseID, "A", "C")

	testutil.CreateTestProject(t, db, ids[0], "Hello")
	assert.ErrorIs(t, svc.DeleteModule(ctx, ids[0]), ErrModuleHasProjects)
	assert.ErrorIs(t, svc.DeleteModule(ctx, ids[1]), ErrModuleNotFound)

	require.NoError(t, svc.DeleteModule(ctx, ids[2]))
	requireTitles(t, svc, courseID, "A")
}

func TestRepairModules(t *testing.T) {
	t.Parallel()
	db, svc, courseID := setup(t)
	ctx := context.Background()
	ids := create(t, svc, courseID, "A", "B", "C")

	_, err := db.Exec(`UPDATE modules SET next_id = NULL WHERE id = ?`, ids[0])
	require.NoError(t, err)
	require.ErrorIs(t, svc.CheckModules(ctx, courseID), sequence.ErrCorruptChain)
	assert.Equal(t, []string{"A"}, titles(t, svc, courseID))

	writes, err := svc.RepairModules(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, writes)
	requireTitles(t, svc, courseID, "A", "B", "C")

	writes, err = svc.RepairModules(ctx, courseID)
	require.NoError(t, err)
	assert.Zero(t, writes)
}

func TestModuleEventsPublished(t *testing.T) {
	t.Parallel()
	db := testutil.SetupTestDB(t)
	courseID := testutil.CreateTestCourse(t, db, "Evented")
	broker := events.NewBroker(10, nil)
	defer broker.Close()
	ch, cancel, err := broker.Subscribe(courseID)
	require.NoError(t, err)
	defer cancel()
	svc := NewService(db, broker)
	ctx := context.Background()

	a, err := svc.CreateModule(ctx, CreateModuleRequest{CourseID: courseID, Title: "A"})
	require.NoError(t, err)
	_, err = svc.CreateModule(ctx, CreateModuleRequest{CourseID: courseID, Title: "B"})
	require.NoError(t, err)
	_, err = svc.ReorderModule(ctx, ReorderModuleRequest{ID: a.ID})
	require.NoError(t, err)

	want := []events.EventType{events.EventCreated, events.EventCreated, events.EventReordered}
	for _, w := range want {
		ev := <-ch
		assert.Equal(t, w, ev.Type)
		assert.Equal(t, events.KindModule, ev.Kind)
		assert.Equal(t, courseID, ev.GroupID)
	}
}
