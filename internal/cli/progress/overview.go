package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// OverviewCmd returns the progress overview subcommand
func OverviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show a student's progress through a course",
		Long: `Show every module of the course in order with the student's status on
each project, followed by completion counts.

Examples:
  tramo progress overview --student=<student-id> --course=<course-id>
`,
		RunE: runOverview,
	}

	cmd.Flags().String("student", "", "Student ID (required)")
	cmd.Flags().String("course", "", "Course ID (required)")
	cli.MarkRequired(cmd, "student", "course")
	cli.AddOutputFlags(cmd, "Minimal output (module ID and status per line)")

	return cmd
}

func runOverview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	studentID, _ := cmd.Flags().GetString("student")
	courseID, _ := cmd.Flags().GetString("course")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	modules, err := cliInstance.App.ProgressService.Overview(ctx, studentID, courseID)
	if err != nil {
		return formatter.Fail(err)
	}
	counts, err := cliInstance.App.ProgressService.Counts(ctx, studentID, courseID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, m := range modules {
			fmt.Printf("%s %s\n", m.Module.ID, m.Status)
		}
		return nil
	}

	if formatter.JSON {
		type projectEntry struct {
			Project cli.ProjectView `json:"project"`
			Status  string          `json:"status"`
		}
		type moduleEntry struct {
			Module   cli.ModuleView `json:"module"`
			Status   string         `json:"status"`
			Projects []projectEntry `json:"projects"`
		}
		entries := make([]moduleEntry, 0, len(modules))
		for _, m := range modules {
			entry := moduleEntry{
				Module:   cli.NewModuleView(m.Module),
				Status:   string(m.Status),
				Projects: make([]projectEntry, 0, len(m.Projects)),
			}
			for _, p := range m.Projects {
				entry.Projects = append(entry.Projects, projectEntry{
					Project: cli.NewProjectView(p.Project),
					Status:  string(p.Status),
				})
			}
			entries = append(entries, entry)
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success": true,
			"modules": entries,
			"counts":  counts,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", styles.TitleStyle.Render("Progress of "+studentID))
	for i, m := range modules {
		fmt.Fprintf(&b, "\n%d. %s %s\n", i+1, m.Module.Title, styles.Status(string(m.Status)))
		if len(m.Projects) == 0 {
			fmt.Fprintf(&b, "   %s\n", styles.MutedStyle.Render("no projects"))
		}
		for _, p := range m.Projects {
			fmt.Fprintf(&b, "   - %s %s\n", p.Project.Title, styles.Status(string(p.Status)))
		}
	}
	fmt.Fprintf(&b, "\n%s %d/%d   %s %d/%d",
		styles.LabelStyle.Render("Modules:"), counts.CompletedModules, counts.Modules,
		styles.LabelStyle.Render("Projects:"), counts.CompletedProjects, counts.Projects)

	fmt.Println(b.String())
	return nil
}
