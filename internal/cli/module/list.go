package module

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
	"github.com/thenoetrevino/tramo/internal/models"
)

// ListCmd returns the module list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the modules of a course in order",
		Long: `List the modules of a course from first to last.

Examples:
  tramo module list --course=<course-id>

  # Only what students can see
  tramo module list --course=<course-id> --published
`,
		RunE: runList,
	}

	cmd.Flags().String("course", "", "Course ID (required)")
	cli.MarkRequired(cmd, "course")
	cmd.Flags().Bool("published", false, "Only list published modules")
	cli.AddOutputFlags(cmd, "Minimal output (IDs only, in order)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	courseID, _ := cmd.Flags().GetString("course")
	published, _ := cmd.Flags().GetBool("published")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	var modules []*models.Module
	if published {
		modules, err = cliInstance.App.ModuleService.ListPublishedModules(ctx, courseID)
	} else {
		modules, err = cliInstance.App.ModuleService.ListModules(ctx, courseID)
	}
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, m := range modules {
			fmt.Println(m.ID)
		}
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"modules": cli.ModuleViews(modules),
		})
	}

	if len(modules) == 0 {
		fmt.Println("No modules found")
		return nil
	}

	fmt.Printf("Found %d modules:\n\n", len(modules))
	for i, m := range modules {
		fmt.Printf("  %d. %s %s %s\n", i+1, m.Title,
			styles.Status(string(m.Status)),
			styles.SubtitleStyle.Render("["+m.ID+"]"))
	}
	return nil
}
