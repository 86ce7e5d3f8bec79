// Package course holds all cli commands related to courses
//
// e.g., tramo course ...
package course

import (
	"github.com/spf13/cobra"
)

// CourseCmd returns the course parent command
func CourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())

	return cmd
}
