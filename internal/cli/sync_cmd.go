package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruipereira/plansync/internal/cli/formatter"
)

func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <workbook.xlsx>",
		Short: "Classify a planning workbook and push it to the workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RemotePreflight != nil {
				if err := app.RemotePreflight(); err != nil {
					return err
				}
			}
			report, err := app.Sync.SyncFile(cmd.Context(), args[0])
			if report != nil {
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderSyncReport(report))
			}
			if err != nil {
				return fmt.Errorf("sync aborted: %w", err)
			}
			if report.Result.Failed > 0 {
				return fmt.Errorf("%d of %d rows failed", report.Result.Failed, report.Result.Total())
			}
			return nil
		},
	}
}
