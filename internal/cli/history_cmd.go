package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruipereira/plansync/internal/cli/formatter"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded sync runs, or one run's node outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				run, nodes, err := app.History.RunDetail(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderRunDetail(run, nodes))
				return nil
			}

			runs, err := app.History.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sync runs recorded yet.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderRunList(runs))
			return nil
		},
	}

	def := app.HistoryLimit
	if def <= 0 {
		def = 20
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", def, "maximum runs to list")
	return cmd
}
