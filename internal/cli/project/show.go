package project

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// ShowCmd returns the project show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show project details",
		Long:  "Display a project with its rendered description and neighbours.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().String("id", "", "Project ID (can also be provided as positional argument)")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	projectID := cli.IDFromArgs(cmd, args)
	if projectID == "" {
		return formatter.FailUsage("project ID is required",
			"Usage: tramo project show <id> or tramo project show --id=<id>")
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	project, err := cliInstance.App.ProjectService.GetProject(ctx, projectID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewProjectView(project))
	}

	author := project.AuthorID
	if author == "" {
		author = "-"
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(project.Title))
	b.WriteString(" ")
	b.WriteString(styles.Status(string(project.Status)))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(project.ID))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("Module:"), styles.ValueStyle.Render(project.ModuleID()))
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("Author:"), styles.ValueStyle.Render(author))
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("After:"), styles.ValueStyle.Render(cli.Neighbour(project.PrevID)))
	fmt.Fprintf(&b, "%s %s\n", styles.LabelStyle.Render("Before:"), styles.ValueStyle.Render(cli.Neighbour(project.NextID)))
	b.WriteString(styles.SectionStyle.Render("Description"))
	b.WriteString("\n")
	b.WriteString(styles.Markdown(project.Description, styles.CardWidth-6))

	fmt.Println(styles.CardStyle.Render(b.String()))
	return nil
}
