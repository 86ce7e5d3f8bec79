package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	projectservice "github.com/thenoetrevino/tramo/internal/services/project"
	"github.com/thenoetrevino/tramo/internal/user"
)

// CreateCmd returns the project create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project in a module",
		Long: `Create a new project. Without --after the project becomes the first of the module.
With --mode=publish it is published right away, otherwise it is saved as a draft.
The default mode comes from projects.default_mode in the config file.

Examples:
  # Draft project at the start of the module
  tramo project create --module=<module-id> --title="FizzBuzz"

  # Published, placed after another project
  tramo project create --module=<module-id> --title="Primes" --mode=publish --after=<project-id>

  # Quiet mode for bash capture
  PROJECT_ID=$(tramo project create --module=<module-id> --title="FizzBuzz" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("module", "", "Module ID (required)")
	cmd.Flags().String("title", "", "Project title (required)")
	cli.MarkRequired(cmd, "module", "title")
	cmd.Flags().String("description", "", "Project description (markdown)")
	cmd.Flags().String("mode", "", "Creation mode: publish or draft")
	cmd.Flags().String("author", "", "Author ID (defaults to $TRAMO_AUTHOR or the OS user)")
	cmd.Flags().String("after", "", "ID of the project to place this one after")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID, _ := cmd.Flags().GetString("module")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	mode, _ := cmd.Flags().GetString("mode")
	authorID, _ := cmd.Flags().GetString("author")
	afterID, _ := cmd.Flags().GetString("after")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if mode == "" {
		mode = cliInstance.Config.Projects.DefaultMode
	}
	if !cmd.Flags().Changed("author") {
		authorID = user.CurrentAuthor()
	}

	project, err := cliInstance.App.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{
		ModuleID:    moduleID,
		Title:       title,
		Description: description,
		Mode:        mode,
		AuthorID:    authorID,
		AfterID:     afterID,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewProjectView(project))
	}

	fmt.Printf("Project '%s' created successfully as %s (ID: %s)\n", project.Title, project.Status, project.ID)
	return nil
}
