// Package progress holds the cli commands that move a student through a
// course
//
// e.g., tramo progress ...
package progress

import (
	"github.com/spf13/cobra"
)

// ProgressCmd returns the progress parent command
func ProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Track student progress through a course",
	}

	cmd.AddCommand(StartCmd())
	cmd.AddCommand(CompleteCmd())
	cmd.AddCommand(OverviewCmd())

	return cmd
}
