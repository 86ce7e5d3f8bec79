package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	projectservice "github.com/thenoetrevino/tramo/internal/services/project"
)

// MoveCmd returns the project move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a project within its module",
		Long: `Move a project to directly after another project of the same module.
Without --after the project becomes the first of the module.

Examples:
  tramo project move --id=<project-id> --after=<other-project-id>
`,
		RunE: runMove,
	}

	cmd.Flags().String("id", "", "Project ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().String("after", "", "ID of the project to place this one after")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	projectID, _ := cmd.Flags().GetString("id")
	afterID, _ := cmd.Flags().GetString("after")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.ReorderProject(ctx, projectservice.ReorderProjectRequest{
		ID:      projectID,
		AfterID: afterID,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewProjectView(project))
	}

	if afterID == "" {
		fmt.Printf("Project '%s' moved to the start of the module\n", project.Title)
	} else {
		fmt.Printf("Project '%s' moved after %s\n", project.Title, afterID)
	}
	return nil
}
