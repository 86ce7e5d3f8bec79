package module

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tramo/internal/cli"
	moduleservice "github.com/thenoetrevino/tramo/internal/services/module"
)

// UpdateCmd returns the module update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update module details",
		Long: `Update the title, description or status of a module. Its position is
never changed here; use "tramo module move" for that.

Examples:
  tramo module update --id=<module-id> --status=draft
`,
		RunE: runUpdate,
	}

	cmd.Flags().String("id", "", "Module ID (required)")
	cli.MarkRequired(cmd, "id")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("status", "", "New status: draft, published, deleted")
	cli.AddOutputFlags(cmd, "Minimal output (ID only)")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	moduleID, _ := cmd.Flags().GetString("id")
	req := moduleservice.UpdateModuleDetailsRequest{
		ID:          moduleID,
		Title:       cli.ChangedString(cmd, "title"),
		Description: cli.ChangedString(cmd, "description"),
		Status:      cli.ChangedString(cmd, "status"),
	}
	if req.Title == nil && req.Description == nil && req.Status == nil {
		return formatter.FailUsage("nothing to update",
			"Pass at least one of --title, --description or --status")
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cli.CloseCLI(cliInstance)

	module, err := cliInstance.App.ModuleService.UpdateModuleDetails(ctx, req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet || formatter.JSON {
		return formatter.Success(cli.NewModuleView(module))
	}

	fmt.Printf("Module %s updated successfully\n", module.ID)
	return nil
}
