package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
)

// RepairCmd returns the project repair subcommand
func RepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Rebuild the project order of a module",
		Long: `Rebuild a corrupt project chain. Projects reachable from the first one keep
their order; the rest are appended in creation order.`,
		RunE: runRepair,
	}

	cmd.Flags().String("module", "", "Module ID (required)")
	cli.MarkRequired(cmd, "module")
	cli.AddOutputFlags(cmd, "Minimal output (number of projects rewritten)")

	return cmd
}

func runRepair(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID, _ := cmd.Flags().GetString("module")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	rewritten, err := cliInstance.App.ProjectService.RepairProjects(ctx, moduleID)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		fmt.Println(rewritten)
		return nil
	}

	if formatter.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"success":   true,
			"module_id": moduleID,
			"rewritten": rewritten,
		})
	}

	if rewritten == 0 {
		fmt.Printf("Projects of module %s were already in order\n", moduleID)
		return nil
	}
	fmt.Printf("Repaired project order of module %s (%d projects rewritten)\n", moduleID, rewritten)
	return nil
}
