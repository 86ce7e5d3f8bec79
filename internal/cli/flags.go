package cli

import (
	"bufio"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// MetricsFlag is the root flag that prints engine metrics to stderr after a
// command finishes
const MetricsFlag = "metrics"

// AddOutputFlags registers the agent-friendly --json and --quiet flags
func AddOutputFlags(cmd *cobra.Command, quietHelp string) {
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, quietHelp)
}

// NewFormatter builds the formatter selected by the output flags of cmd
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}
}

// MarkRequired marks flags as required
func MarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			slog.Error("failed to mark flag as required", "flag", name, "error", err)
		}
	}
}

// Open returns the CLI for cmd. Initialization failures are reported
// through f and carry ExitError.
func Open(cmd *cobra.Command, f *OutputFormatter) (*CLI, error) {
	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		if fmtErr := f.Error("INITIALIZATION_ERROR", err.Error()); fmtErr != nil {
			slog.Error("failed to format error message", "error", fmtErr)
		}
		return nil, Exit(ExitError, err)
	}
	if on, _ := cmd.Flags().GetBool(MetricsFlag); on {
		cliInstance.metricsOut = cmd.ErrOrStderr()
	}
	return cliInstance, nil
}

// CloseCLI closes c, logging failures. Meant for defer.
func CloseCLI(c *CLI) {
	if err := c.Close(); err != nil {
		slog.Error("failed to close CLI", "error", err)
	}
}

// IDFromArgs returns the positional id if given, else the --id flag
func IDFromArgs(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return strings.TrimSpace(args[0])
	}
	id, _ := cmd.Flags().GetString("id")
	return strings.TrimSpace(id)
}

// ChangedString returns the flag value when the user set it, nil otherwise
func ChangedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}

// Confirm reads one answer line and reports whether it was yes
func Confirm(r *bufio.Reader) bool {
	response, err := r.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
