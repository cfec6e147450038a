package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruipereira/plansync/internal/cli/formatter"
)

func newInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <workbook.xlsx>",
		Short: "Classify a planning workbook locally and show the hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inspection, err := app.Inspect.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderInspection(inspection))
			return nil
		},
	}
}
