// Package module holds all cli commands related to modules
//
// e.g., tramo module ...
package module

import (
	"github.com/spf13/cobra"
)

// ModuleCmd returns the module parent command
func ModuleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Manage the modules of a course",
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
