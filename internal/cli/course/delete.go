package course

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
)

// DeleteCmd returns the course delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a course",
		Long: `Delete a course by ID together with its modules, projects and student progress.
Requires confirmation unless --force or --quiet.`,
		RunE: runDelete,
	}

	cmd.Flags().String("id", "", "Course ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	courseID, _ := cmd.Flags().GetString("id")
	force, _ := cmd.Flags().GetBool("force")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	course, err := cliInstance.App.CourseService.GetCourse(ctx, courseID)
	if err != nil {
		return formatter.Fail(err)
	}

	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Printf("Delete course '%s' and everything in it? (y/N): ", course.Title)
		if !cli.Confirm(bufio.NewReader(cmd.InOrStdin())) {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.CourseService.DeleteCourse(ctx, courseID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"course_id": courseID,
		})
	}

	fmt.Printf("Course %s deleted successfully\n", courseID)
	return nil
}
