package module

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	moduleservice "github.com/thenoetrevino/tramo/internal/services/module"
)

// MoveCmd returns the module move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a module within its course",
		Long: `Move a module to directly after another module of the same course.
Without --after the module becomes the first of the course.

Examples:
  tramo module move --id=<module-id> --after=<other-module-id>

  # Make it the first module
  tramo module move --id=<module-id>
`,
		RunE: runMove,
	}

	cmd.Flags().String("id", "", "Module ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().String("after", "", "ID of the module to place this one after")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID, _ := cmd.Flags().GetString("id")
	afterID, _ := cmd.Flags().GetString("after")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	module, err := cliInstance.App.ModuleService.ReorderModule(ctx, moduleservice.ReorderModuleRequest{
		ID:      moduleID,
		AfterID: afterID,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewModuleView(module))
	}

	if afterID == "" {
		fmt.Printf("Module '%s' moved to the start of the course\n", module.Title)
	} else {
		fmt.Printf("Module '%s' moved after %s\n", module.Title, afterID)
	}
	return nil
}
