package module

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
)

// DeleteCmd returns the module delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a module",
		Long: `Delete an empty module and close the gap it leaves in the course.
Requires confirmation unless --force or --quiet.`,
		RunE: runDelete,
	}

	cmd.Flags().String("id", "", "Module ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().Bool("force", false, "Skip confirmation")
	cli.AddOutputFlags(cmd, "Minimal output")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID, _ := cmd.Flags().GetString("id")
	force, _ := cmd.Flags().GetBool("force")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	module, err := cliInstance.App.ModuleService.GetModule(ctx, moduleID)
	if err != nil {
		return formatter.Fail(err)
	}

	if !force && !formatter.Quiet && !formatter.JSON {
		fmt.Printf("Delete module '%s'? (y/N): ", module.Title)
		if !cli.Confirm(bufio.NewReader(cmd.InOrStdin())) {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := cliInstance.App.ModuleService.DeleteModule(ctx, moduleID); err != nil {
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

	fmt.Printf("Module %s deleted successfully\n", moduleID)
	return nil
}
