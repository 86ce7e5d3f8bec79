package course

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// ShowCmd returns the course show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show course details",
		Long:  "Display a course with its modules in order.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().String("id", "", "Course ID (can also be provided as positional argument)")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	courseID := cli.IDFromArgs(cmd, args)
	if courseID == "" {
		return formatter.FailUsage("course ID is required",
			"Usage: tramo course show <id> or tramo course show --id=<id>")
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	course, err := cliInstance.App.CourseService.GetCourse(ctx, courseID)
	if err != nil {
		return formatter.Fail(err)
	}
	modules, err := cliInstance.App.ModuleService.ListModules(ctx, courseID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return formatter.Success(cli.NewCourseView(course))
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{
			"course":  cli.NewCourseView(course),
			"modules": cli.ModuleViews(modules),
		})
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(course.Title))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(course.ID))
	b.WriteString("\n")
	b.WriteString(styles.SectionStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(styles.Markdown(course.Description, styles.CardWidth-6))
	b.WriteString("\n")
	b.WriteString(styles.SectionStyle.Render(fmt.Sprintf("Modules (%d)", len(modules))))
	for i, m := range modules {
		fmt.Fprintf(&b, "\n  %d. %s %s", i+1, m.Title, styles.Status(string(m.Status)))
	}

	fmt.Println(styles.CardStyle.Render(b.String()))
	return nil
}
