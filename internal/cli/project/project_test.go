package project

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clipkg "github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/models"
	"github.com/thenoetrevino/tramo/internal/testutil"
	"github.com/thenoetrevino/tramo/internal/testutil/cli"
	"github.com/thenoetrevino/tramo/internal/user"
)

func TestCreateProject(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	courseID := cli.CreateTestCourse(t, db, "Go")
	moduleID := cli.CreateTestModule(t, db, courseID, "Loops")

	t.Run("Default mode saves a draft", func(t *testing.T) {
		t.Setenv(user.AuthorEnv, "author-9")
		output, err := cli.ExecuteCLICommand(t, app, CreateCmd(), []string{
			"--module", moduleID, "--title", "FizzBuzz", "--json",
		})
		require.NoError(t, err)

		data := cli.Data(t, output)
		assert.Equal(t, "draft", data["status"])
		assert.Equal(t, moduleID, data["module_id"])
		assert.Equal(t, "author-9", data["author_id"])
	})

	t.Run("Publish mode with author", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, CreateCmd(), []string{
			"--module", moduleID, "--title", "Primes", "--mode", "publish", "--author", "author-1", "--json",
		})
		require.NoError(t, err)

		data := cli.Data(t, output)
		assert.Equal(t, "published", data["status"])
		assert.Equal(t, "author-1", data["author_id"])
	})

	t.Run("Human output", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, CreateCmd(), []string{
			"--module", moduleID, "--title", "Readable",
		})
		require.NoError(t, err)
		assert.Contains(t, output, "Project 'Readable' created successfully as draft")
	})

	t.Run("Unknown module", func(t *testing.T) {
		output, err := cli.ExecuteCLICommand(t, app, CreateCmd(), []string{
			"--module", "missing", "--title", "X", "--json",
		})
		assert.Equal(t, clipkg.ExitNotFound, clipkg.ExitCode(err))
		assert.Equal(t, "MODULE_NOT_FOUND", cli.ParseJSON(t, output)["error"].(map[string]any)["code"])
	})
}

// Scenario from the ordering rules: insertions at the head, after a node
// and after the tail, then relocations and a removal.
func TestProjectOrderingScenario(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	courseID := cli.CreateTestCourse(t, db, "Go")
	moduleID := cli.CreateTestModule(t, db, courseID, "Loops")

	create := func(title string, after string) string {
		t.Helper()
		args := []string{"--module", moduleID, "--title", title, "--quiet"}
		if after != "" {
			args = append(args, "--after", after)
		}
		output, err := cli.ExecuteCLICommand(t, app, CreateCmd(), args)
		require.NoError(t, err)
		return strings.TrimSpace(output)
	}
	list := func() []string {
		t.Helper()
		output, err := cli.ExecuteCLICommand(t, app, ListCmd(), []string{"--module", moduleID, "--quiet"})
		require.NoError(t, err)
		return strings.Fields(output)
	}
	move := func(id, after string) {
		t.Helper()
		args := []string{"--id", id, "--quiet"}
		if after != "" {
			args = append(args, "--after", after)
		}
		_, err := cli.ExecuteCLICommand(t, app, MoveCmd(), args)
		require.NoError(t, err)
	}

	a := create("A", "")
	b := create("B", a)
	c := create("C", b)
	assert.Equal(t, []string{a, b, c}, list())

	move(c, "")
	assert.Equal(t, []string{c, a, b}, list())

	move(c, b)
	assert.Equal(t, []string{a, b, c}, list())

	move(a, b)
	if diff := cmp.Diff([]string{b, a, c}, list()); diff != "" {
		t.Errorf("project order mismatch (-want +got):\n%s", diff)
	}

	_, err := cli.ExecuteCLICommand(t, app, DeleteCmd(), []string{"--id", a, "--force", "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, []string{b, c}, list())

	_, err = cli.ExecuteCLICommand(t, app, CheckCmd(), []string{"--module", moduleID, "--quiet"})
	assert.NoError(t, err)
}

func TestMoveProjectStaysInModule(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	courseID := cli.CreateTestCourse(t, db, "Go")
	first := cli.CreateTestModule(t, db, courseID, "Basics")
	second := cli.CreateTestModule(t, db, courseID, "Loops")
	p := cli.CreateTestProject(t, db, first, "Hello")
	other := cli.CreateTestProject(t, db, second, "FizzBuzz")

	output, err := cli.ExecuteCLICommand(t, app, MoveCmd(), []string{"--id", p, "--after", other, "--json"})
	require.Error(t, err)
	assert.Equal(t, clipkg.ExitNotFound, clipkg.ExitCode(err))
	assert.Equal(t, "PREDECESSOR_NOT_FOUND", cli.ParseJSON(t, output)["error"].(map[string]any)["code"])

	_, err = cli.ExecuteCLICommand(t, app, MoveCmd(), []string{"--id", p, "--after", p, "--json"})
	assert.Equal(t, clipkg.ExitValidation, clipkg.ExitCode(err))
}

func TestShowAndUpdateProject(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	courseID := cli.CreateTestCourse(t, db, "Go")
	moduleID := cli.CreateTestModule(t, db, courseID, "Loops")
	a := cli.CreateTestProject(t, db, moduleID, "A")
	b := cli.CreateTestProject(t, db, moduleID, "B")

	output, err := cli.ExecuteCLICommand(t, app, UpdateCmd(), []string{
		"--id", b, "--description", "Print **numbers**", "--status", "draft", "--json",
	})
	require.NoError(t, err)
	data := cli.Data(t, output)
	assert.Equal(t, "draft", data["status"])
	assert.Equal(t, a, data["prev_id"], "details updates keep the position")

	output, err = cli.ExecuteCLICommand(t, app, ShowCmd(), []string{b})
	require.NoError(t, err)
	assert.Contains(t, output, "numbers")
	assert.Contains(t, output, a)

	_, err = cli.ExecuteCLICommand(t, app, UpdateCmd(), []string{"--id", b, "--status", "deleted", "--json"})
	assert.Equal(t, clipkg.ExitValidation, clipkg.ExitCode(err))
}

func TestDeleteProjectRemovesProgress(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	courseID := cli.CreateTestCourse(t, db, "Go")
	moduleID := cli.CreateTestModule(t, db, courseID, "Loops")
	p := cli.CreateTestProject(t, db, moduleID, "FizzBuzz")
	testutil.SetProgress(t, db, "student-1", p, models.ProgressCompleted)

	_, err := cli.ExecuteCLICommand(t, app, DeleteCmd(), []string{"--id", p, "--json"})
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM student_projects WHERE project_id = ?", p).Scan(&n))
	assert.Zero(t, n)
}

func TestCheckAndRepairProjects(t *testing.T) {
	db, app := cli.SetupCLITest(t)
	courseID := cli.CreateTestCourse(t, db, "Go")
	moduleID := cli.CreateTestModule(t, db, courseID, "Loops")
	a := cli.CreateTestProject(t, db, moduleID, "A")
	b := cli.CreateTestProject(t, db, moduleID, "B")

	// Detach B so the module has two heads
	_, err := db.ExecContext(context.Background(),
		"UPDATE projects SET prev_id = NULL WHERE id = ?", b)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(),
		"UPDATE projects SET next_id = NULL WHERE id = ?", a)
	require.NoError(t, err)

	_, err = cli.ExecuteCLICommand(t, app, ListCmd(), []string{"--module", moduleID, "--json"})
	assert.Equal(t, clipkg.ExitDataErr, clipkg.ExitCode(err))

	_, err = cli.ExecuteCLICommand(t, app, CheckCmd(), []string{"--module", moduleID, "--json"})
	assert.Equal(t, clipkg.ExitDataErr, clipkg.ExitCode(err))

	output, err := cli.ExecuteCLICommand(t, app, RepairCmd(), []string{"--module", moduleID})
	require.NoError(t, err)
	assert.Contains(t, output, "Repaired project order")

	output, err = cli.ExecuteCLICommand(t, app, ListCmd(), []string{"--module", moduleID, "--quiet"})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, strings.Fields(output))
}
