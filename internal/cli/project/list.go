package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// ListCmd returns the project list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the projects of a module in order",
		Long:  "List the projects of a module from first to last.",
		RunE:  runList,
	}

	cmd.Flags().String("module", "", "Module ID (required)")
	cli.MarkRequired(cmd, "module")
	cli.AddOutputFlags(cmd, "Minimal output (IDs only, in order)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID, _ := cmd.Flags().GetString("module")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	projects, err := cliInstance.App.ProjectService.ListProjects(ctx, moduleID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, p := range projects {
			fmt.Println(p.ID)
		}
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":  true,
			"projects": cli.ProjectViews(projects),
		})
	}

	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	fmt.Printf("Found %d projects:\n\n", len(projects))
	for i, p := range projects {
		fmt.Printf("  %d. %s %s %s\n", i+1, p.Title,
			styles.Status(string(p.Status)),
			styles.SubtitleStyle.Render("["+p.ID+"]"))
	}
	return nil
}
