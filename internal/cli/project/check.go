package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	"github.com/thenoetrevino/tramo/internal/cli/styles"
)

// CheckCmd returns the project check subcommand
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the project order of a module",
		Long: `Verify that the projects of a module form a single chain and list every
problem found. Exits with code 4 when the chain is corrupt.`,
		RunE: runCheck,
	}

	cmd.Flags().String("module", "", "Module ID (required)")
	cli.MarkRequired(cmd, "module")
	cli.AddOutputFlags(cmd, "No output, exit code only")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID, _ := cmd.Flags().GetString("module")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	if err := cliInstance.App.ProjectService.CheckProjects(ctx, moduleID); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"module_id": moduleID,
		})
	}

	fmt.Printf("%s projects of module %s are in order\n", styles.SuccessStyle.Render("OK"), moduleID)
	return nil
}
