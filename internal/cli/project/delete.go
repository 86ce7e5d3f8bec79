package project

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
)

// DeleteCmd returns the project delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a project",
		Long: `Delete a project and the student progress recorded on it, closing the gap
it leaves in the module. Requires confirmation unless --force or --quiet.`,
		RunE: runDelete,
	}

	cmd.Flags().String("id", "", "Project ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	projectID, _ := cmd.Flags().GetString("id")
	force, _ := cmd.Flags().GetBool("force")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.GetProject(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Printf("Delete project '%s'? (y/N): ", project.Title)
		if !cli.Confirm(bufio.NewReader(cmd.InOrStdin())) {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.ProjectService.DeleteProject(ctx, projectID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":    true,
			"project_id": projectID,
		})
	}

	fmt.Printf("Project %s deleted successfully\n", projectID)
	return nil
}
