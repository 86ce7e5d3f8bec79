package cli

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/tramo/internal/app"
	"github.com/thenoetrevino/tramo/internal/testutil"
)

// ExecuteCLICommand executes a CLI command with a test app instance
// This properly injects the app context so commands can access the test database
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	ctx := context.Background()
	return ExecuteCLICommandWithContext(t, ctx, testApp, cmd, args)
}

// ExecuteCLICommandWithContext executes a CLI command with a specific context and test app
func ExecuteCLICommandWithContext(t *testing.T, ctx context.Context, testApp *app.App, cmd *cobra.Command, args []string) (string, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	// Set command args
	cmd.SetArgs(args)

	// Create a wrapper context that will be recognized by GetCLIFromContext in CLI package
	// We pass the app instance through the context
	ctxWithApp := context.WithValue(ctx, testutil.TestAppKey, testApp)

	// Set the context on the command
	cmd.SetContext(ctxWithApp)

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	// Capture output and execute
	var output string
	var executeErr error

	output = CaptureOutput(t, func() {
		executeErr = cmd.ExecuteContext(ctxWithApp)
	})

	return output, executeErr
}
