package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ruipereira/plansync/internal/classify"
	"github.com/ruipereira/plansync/internal/cli"
	"github.com/ruipereira/plansync/internal/cli/formatter"
	"github.com/ruipereira/plansync/internal/config"
	"github.com/ruipereira/plansync/internal/db"
	"github.com/ruipereira/plansync/internal/export"
	"github.com/ruipereira/plansync/internal/mapping"
	"github.com/ruipereira/plansync/internal/notion"
	"github.com/ruipereira/plansync/internal/reconcile"
	"github.com/ruipereira/plansync/internal/repository"
	"github.com/ruipereira/plansync/internal/service"
	"github.com/ruipereira/plansync/internal/sheet"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("opening journal database: %w", err)
	}
	defer database.Close()

	runRepo := repository.NewSQLiteSyncRunRepo(database)

	var callLog io.Writer
	if cfg.LogCalls {
		callLog = os.Stderr
	}
	client := notion.NewClient(notion.Config{
		Token:           cfg.Token,
		BaseURL:         cfg.APIURL,
		MinCallInterval: cfg.RateLimit,
		MaxRetries:      cfg.MaxRetries,
		RetryDelay:      cfg.RetryDelay,
	}, callObserver(callLog))

	loader := sheet.NewLoader(sheet.DefaultConfig())
	classifier := classify.New(classify.DefaultColumns())
	writer := export.NewWriter(mapping.DefaultStatusVocabulary())

	reconcileCfg := reconcile.Config{
		ProjectsDB: cfg.ProjectsDB,
		TasksDB:    cfg.TasksDB,
		Verify:     cfg.Verify,
	}

	app := &cli.App{
		Sync: service.NewSyncService(
			loader, classifier, client, reconcileCfg, runRepo,
			progressObserver(os.Stderr),
			service.NewLogUseCaseObserver(callLog),
		),
		Inspect:         service.NewInspectService(loader, classifier),
		Export:          service.NewExportService(loader, classifier, writer),
		History:         service.NewHistoryService(runRepo),
		RemotePreflight: cfg.ValidateRemote,
		HistoryLimit:    cfg.HistoryLimit,
	}

	return cli.NewRootCmd(app).Execute()
}

func callObserver(w io.Writer) notion.Observer {
	if w == nil {
		return notion.NoopObserver{}
	}
	return notion.NewLogObserver(w)
}

// progressObserver streams per-node outcomes and warnings to the terminal
// while a sync runs, so a long workbook doesn't look stalled. Non-terminal
// output stays quiet.
func progressObserver(w *os.File) reconcile.Observer {
	if !isatty.IsTerminal(w.Fd()) && !isatty.IsCygwinTerminal(w.Fd()) {
		return reconcile.NoopObserver{}
	}
	return &progressPrinter{w: w}
}

type progressPrinter struct {
	w io.Writer
}

func (p *progressPrinter) OnNodeSynced(nr reconcile.NodeResult) {
	fmt.Fprintf(p.w, "%s  %s\n", formatter.OutcomeIndicator(nr.Outcome), nr.Title)
}

func (p *progressPrinter) OnWarning(msg string) {
	fmt.Fprintf(p.w, "warning: %s\n", msg)
}
