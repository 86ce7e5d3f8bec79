package course

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	courseservice "github.com/thenoetrevino/tramo/internal/services/course"
)

// UpdateCmd returns the course update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a course",
		Long: `Update the title or description of a course. Only the flags given change.

Examples:
  tramo course update --id=<id> --title="Go Fundamentals"
`,
		RunE: runUpdate,
	}

	cmd.Flags().String("id", "", "Course ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	courseID, _ := cmd.Flags().GetString("id")
	req := courseservice.UpdateCourseRequest{
		ID:          courseID,
		Title:       cli.ChangedString(cmd, "title"),
		Description: cli.ChangedString(cmd, "description"),
	}
	if req.Title == nil && req.Description == nil {
		return formatter.FailUsage("nothing to update",
			"Pass --title and/or --description")
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	course, err := cliInstance.App.CourseService.UpdateCourse(ctx, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewCourseView(course))
	}

	fmt.Printf("Course %s updated successfully\n", course.ID)
	return nil
}
