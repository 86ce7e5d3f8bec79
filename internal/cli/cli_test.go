package cli

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tramo/internal/app"
	"github.com/thenoetrevino/tramo/internal/logging"
	courseservice "github.com/thenoetrevino/tramo/internal/services/course"
	moduleservice "github.com/thenoetrevino/tramo/internal/services/module"
	"github.com/thenoetrevino/tramo/internal/testutil"
)

func TestNewCLILogsChangesAndWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("TRAMO_DB_PATH", filepath.Join(dir, "tramo.db"))
	t.Setenv("TRAMO_LOG_LEVEL", "info")
	previous := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(previous)
		log.SetOutput(os.Stderr)
	})

	ctx := context.Background()
	c, err := NewCLI(ctx)
	require.NoError(t, err)

	course, err := c.App.CourseService.CreateCourse(ctx, courseservice.CreateCourseRequest{Title: "Go"})
	require.NoError(t, err)
	module, err := c.App.ModuleService.CreateModule(ctx, moduleservice.CreateModuleRequest{CourseID: course.ID, Title: "Basics"})
	require.NoError(t, err)

	var metricsOut bytes.Buffer
	c.metricsOut = &metricsOut
	require.NoError(t, c.Close())

	assert.Contains(t, metricsOut.String(), `tramo_sequence_operations_total{kind="module",op="insert",result="ok"} 1`)

	logData, err := os.ReadFile(filepath.Join(dir, ".tramo", "logs", "tramo.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "change committed")
	assert.Contains(t, string(logData), "node_id="+module.ID)
}

func TestOpenHonoursMetricsFlag(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testApp := app.New(db, app.WithLogger(logging.Discard()))

	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().Bool(MetricsFlag, false, "")
		cmd.SetContext(context.WithValue(context.Background(), testutil.TestAppKey, testApp))
		return cmd
	}

	cmd := newCmd()
	c, err := Open(cmd, &OutputFormatter{})
	require.NoError(t, err)
	assert.Nil(t, c.metricsOut)

	var stderr bytes.Buffer
	cmd = newCmd()
	cmd.SetErr(&stderr)
	require.NoError(t, cmd.Flags().Set(MetricsFlag, "true"))
	c, err = Open(cmd, &OutputFormatter{})
	require.NoError(t, err)
	assert.Equal(t, &stderr, c.metricsOut)
	assert.NoError(t, c.Close(), "an injected app is left open")
}
