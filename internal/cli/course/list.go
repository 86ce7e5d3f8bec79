package course

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// ListCmd returns the course list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all courses",
		Long:  "List all courses, oldest first.",
		RunE:  runList,
	}

	cli.AddOutputFlags(cmd, "Minimal output (IDs only)")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	courses, err := cliInstance.App.CourseService.ListCourses(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, c := range courses {
			fmt.Println(c.ID)
		}
		return nil
	}

	if formatter.JSON {
		views := make([]cli.CourseView, 0, len(courses))
		for _, c := range courses {
			views = append(views, cli.NewCourseView(c))
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"courses": views,
		})
	}

	if len(courses) == 0 {
		fmt.Println("No courses found")
		return nil
	}

	fmt.Printf("Found %d courses:\n\n", len(courses))
	for _, c := range courses {
		fmt.Printf("  %s %s", styles.SubtitleStyle.Render("["+c.ID+"]"), c.Title)
		if c.Description != "" {
			fmt.Printf(" - %s", c.Description)
		}
		fmt.Println()
	}
	return nil
}
