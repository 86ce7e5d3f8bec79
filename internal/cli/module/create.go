package module

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	moduleservice "github.com/thenoetrevino/tramo/internal/services/module"
)

// CreateCmd returns the module create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new module in a course",
		Long: `Create a new module. Without --after the module becomes the first of the course.

Examples:
  # First module of the course
  tramo module create --course=<course-id> --title="Intro"

  # Place it after an existing module
  tramo module create --course=<course-id> --title="Loops" --after=<module-id>

  # Quiet mode for bash capture
  MODULE_ID=$(tramo module create --course=<course-id> --title="Intro" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("course", "", "Course ID (required)")
	cmd.Flags().String("title", "", "Module title (required)")
	cli.MarkRequired(cmd, "course", "title")
	cmd.Flags().String("description", "", "Module description (markdown)")
	cmd.Flags().String("status", "published", "Module status: draft, published, deleted")
	cmd.Flags().String("after", "", "ID of the module to place this one after")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	courseID, _ := cmd.Flags().GetString("course")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	status, _ := cmd.Flags().GetString("status")
	afterID, _ := cmd.Flags().GetString("after")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	module, err := cliInstance.App.ModuleService.CreateModule(ctx, moduleservice.CreateModuleRequest{
		CourseID:    courseID,
		Title:       title,
		Description: description,
		Status:      status,
		AfterID:     afterID,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewModuleView(module))
	}

	fmt.Printf("Module '%s' created successfully (ID: %s)\n", module.Title, module.ID)
	return nil
}
