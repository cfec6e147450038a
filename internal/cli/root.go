package cli

import (
	"github.com/spf13/cobra"

	"github.com/ruipereira/plansync/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sync    service.SyncService
	Inspect service.InspectService
	Export  service.ExportService
	History service.HistoryService

	// RemotePreflight reports whether remote credentials are configured.
	// Only the sync command needs it; local commands run without a token.
	RemotePreflight func() error

	// HistoryLimit is the default number of runs the history command lists.
	HistoryLimit int
}

// NewRootCmd creates the top-level "plansync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "plansync",
		Short:         "Sync Excel planning workbooks to Notion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSyncCmd(app),
		newInspectCmd(app),
		newExportCmd(app),
		newHistoryCmd(app),
	)

	return root
}
