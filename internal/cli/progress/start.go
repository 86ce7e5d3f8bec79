package progress

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
)

// StartCmd returns the progress start subcommand
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a student on a course",
		Long: `Release the first project of the course to a student who has not started it.
Starting twice changes nothing.

Examples:
  tramo progress start --student=<student-id> --course=<course-id>
`,
		RunE: runStart,
	}

	cmd.Flags().String("student", "", "Student ID (required)")
	cmd.Flags().String("course", "", "Course ID (required)")
	cli.MarkRequired(cmd, "student", "course")
	cli.AddOutputFlags(cmd, "Minimal output (released project ID)")

	return cmd
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	studentID, _ := cmd.Flags().GetString("student")
	courseID, _ := cmd.Flags().GetString("course")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	released, err := cliInstance.App.ProgressService.Start(ctx, studentID, courseID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		if released != nil {
			fmt.Println(released.ID)
		}
		return nil
	}

	if formatter.JSON {
		result := map[string]any{
			"success":    true,
			"student_id": studentID,
			"course_id":  courseID,
		}
		if released != nil {
			result["released"] = cli.NewProjectView(released)
		}
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	if released == nil {
		fmt.Printf("Student %s has already started course %s or it has no projects yet\n", studentID, courseID)
		return nil
	}
	fmt.Printf("Released '%s' to student %s\n", released.Title, studentID)
	return nil
}
