// Package cmd assembles the tramo command tree
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/course"
	"github.com/thenoetrevino/tramo/internal/cli/module"
	"github.com/thenoetrevino/tramo/internal/cli/progress"
	"github.com/thenoetrevino/tramo/internal/cli/project"
)

// NewRootCmd builds the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tramo",
		Short: "Tramo - ordered courses, modules and projects",
		Long: `Tramo manages courses made of ordered modules, each made of ordered projects,
and walks students through them one project at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool(cli.MetricsFlag, false, "Print sequence engine metrics to stderr when the command finishes")

	rootCmd.AddCommand(course.CourseCmd())
	rootCmd.AddCommand(module.ModuleCmd())
	rootCmd.AddCommand(project.ProjectCmd())
	rootCmd.AddCommand(progress.ProgressCmd())

	return rootCmd
}

// Execute runs the command tree with ctx
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
