package module

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// CheckCmd returns the module check subcommand
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the module order of a course",
		Long: `Verify that the modules of a course form a single chain and list every
problem found. Exits with code 4 when the chain is corrupt.`,
		RunE: runCheck,
	}

	cmd.Flags().String("course", "", "Course ID (required)")
	cli.MarkRequired(cmd, "course")
	cli.AddOutputFlags(cmd, "No output, exit code only")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	courseID, _ := cmd.Flags().GetString("course")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if err := cliInstance.App.ModuleService.CheckModules(ctx, courseID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"course_id": courseID,
		})
	}

	fmt.Printf("%s modules of course %s are in order\n", styles.SuccessStyle.Render("OK"), courseID)
	return nil
}
