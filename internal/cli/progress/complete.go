package progress

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
)

// CompleteCmd returns the progress complete subcommand
func CompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Mark a project completed for a student",
		Long: `Mark a project completed and release the next one: the following project of
the module, or the first project of the next module that has any.

Examples:
  tramo progress complete --student=<student-id> --project=<project-id>
`,
		RunE: runComplete,
	}

	cmd.Flags().String("student", "", "Student ID (required)")
	cmd.Flags().String("project", "", "Project ID (required)")
	cli.MarkRequired(cmd, "student", "project")
	cli.AddOutputFlags(cmd, "Minimal output (released project ID)")

	return cmd
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	studentID, _ := cmd.Flags().GetString("student")
	projectID, _ := cmd.Flags().GetString("project")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	result, err := cliInstance.App.ProgressService.Complete(ctx, studentID, projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		if result.Released != nil {
			fmt.Println(result.Released.ID)
		}
		return nil
	}

	if formatter.JSON {
		out := map[string]any{
			"success":    true,
			"student_id": studentID,
			"project_id": projectID,
			"status":     result.Progress.Status,
		}
		if result.Released != nil {
			out["released"] = cli.NewProjectView(result.Released)
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}

	fmt.Printf("Project %s is %s for student %s\n", projectID, result.Progress.Status, studentID)
	if result.Released != nil {
		fmt.Printf("Next up: '%s' (ID: %s)\n", result.Released.Title, result.Released.ID)
	} else {
		fmt.Println("That was the last project of the course")
	}
	return nil
}
