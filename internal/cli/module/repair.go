package module

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
)

// RepairCmd returns the module repair subcommand
func RepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Rebuild the module order of a course",
		Long: `Rebuild a corrupt module chain. Modules reachable from the first one keep
their order; the rest are appended in creation order.`,
		RunE: runRepair,
	}

	cmd.Flags().String("course", "", "Course ID (required)")
	cli.MarkRequired(cmd, "course")
	cli.AddOutputFlags(cmd, "Minimal output (number of modules rewritten)")

	return cmd
}

func runRepair(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	courseID, _ := cmd.Flags().GetString("course")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	rewritten, err := cliInstance.App.ModuleService.RepairModules(ctx, courseID)
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
			"course_id": courseID,
			"rewritten": rewritten,
		})
	}

	if rewritten == 0 {
		fmt.Printf("Modules of course %s were already in order\n", courseID)
		return nil
	}
	fmt.Printf("Repaired module order of course %s (%d modules rewritten)\n", courseID, rewritten)
	return nil
}
