package course

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	courseservice "github.com/thenoetrevino/tramo/internal/services/course"
)

// CreateCmd returns the course create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new course",
		Long: `Create a new course.

Examples:
  # Simple course (human-readable output)
  tramo course create --title="Go Basics"

  # JSON output for agents
  tramo course create --title="Go Basics" --json

  # Quiet mode for bash capture
  COURSE_ID=$(tramo course create --title="Go Basics" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("title", "", "Course title (required)")
	cli.MarkRequired(cmd, "title")
	cmd.Flags().String("description", "", "Course description")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	course, err := cliInstance.App.CourseService.CreateCourse(ctx, courseservice.CreateCourseRequest{
		Title:       title,
		Description: description,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewCourseView(course))
	}

	fmt.Printf("Course '%s' created successfully (ID: %s)\n", course.Title, course.ID)
	return nil
}
