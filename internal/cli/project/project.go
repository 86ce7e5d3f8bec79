// Package project holds all cli commands related to projects
//
// e.g., tramo project ...
package project

import (
	"github.com/spf13/cobra"
)

// ProjectCmd returns the project parent command
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage the projects of a module",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(MoveCmd())
	cmd.AddCommand(UpdateCmd())
	cmd.AddCommand(DeleteCmd())
	cmd.AddCommand(CheckCmd())
	cmd.AddCommand(RepairCmd())

	return cmd
}
