package module

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// ShowCmd returns the module show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show module details",
		Long:  "Display a module with its rendered description, neighbours and projects in order.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().String("id", "", "Module ID (can also be provided as positional argument)")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID := cli.IDFromArgs(cmd, args)
	if moduleID == "" {
		return formatter.FailUsage("module ID is required",
			"Usage: tramo module show <id> or tramo module show --id=<id>")
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	module, err := cliInstance.App.ModuleService.GetModule(ctx, moduleID)
	if err != nil {
		return formatter.Fail(err)
	}
	projects, err := cliInstance.App.ProjectService.ListProjects(ctx, moduleID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return formatter.Success(cli.NewModuleView(module))
	}

	if formatter.JSON {
		return formatter.Success(map[string]any{
			"module":   cli.NewModuleView(module),
			"projects": cli.ProjectViews(projects),
		})
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(module.Title))
	b.WriteString(" ")
	b.WriteString(styles.Status(string(module.Status)))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(module.ID))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("Course:"), styles.ValueStyle.Render(module.CourseID()))
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("After:"), styles.ValueStyle.Render(cli.Neighbour(module.PrevID)))
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("Before:"), styles.ValueStyle.Render(cli.Neighbour(module.NextID)))
	b.WriteString(styles.SectionStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(styles.Markdown(module.Description, styles.CardWidth-6))
	b.WriteString("\n")
	b.WriteString(styles.SectionStyle.Render(fmt.Sprintf("Projects (%d)", len(projects))))
	for i, p := range projects {
		fmt.Fprintf(&b, "\n  %d. %s %s", i+1, p.Title, styles.Status(string(p.Status)))
	}

	fmt.Println(styles.CardStyle.Render(b.String()))
	return nil
}
