package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	projectservice "github.com/thenoetrevino/tramo/internal/services/project"
)

// UpdateCmd returns the project update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update project details",
		Long: `Update the title, description or status of a project. Its position is
never changed here; use "tramo project move" for that.

Examples:
  tramo project update --id=<project-id> --status=published
`,
		RunE: runUpdate,
	}

	cmd.Flags().String("id", "", "Project ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("status", "", "New status: draft, published")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	projectID, _ := cmd.Flags().GetString("id")
	req := projectservice.UpdateProjectDetailsRequest{
		ID:          projectID,
		Title:       cli.ChangedString(cmd, "title"),
		Description: cli.ChangedString(cmd, "description"),
		Status:      cli.ChangedString(cmd, "status"),
	}
	if req.Title == nil && req.Description == nil && req.Status == nil {
		return formatter.FailUsage("nothing to update",
			"Pass at least one of --title, --description or --status")
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.UpdateProjectDetails(ctx, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewProjectView(project))
	}

	fmt.Printf("Project %s updated successfully\n", project.ID)
	return nil
}
