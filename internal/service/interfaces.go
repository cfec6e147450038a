package service

import (
	"context"
	"time"

	"github.com/ruipereira/plansync/internal/classify"
	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/reconcile"
)

// Inspection holds a classified workbook without any remote interaction.
type Inspection struct {
	File    string
	Project domain.ProjectInfo
	Nodes   []domain.Node
	Stats   classify.Stats
}

// SyncReport holds the outcome of pushing one workbook to the workspace.
type SyncReport struct {
	RunID         string
	File          string
	Project       domain.ProjectInfo
	ProjectPageID string
	Stats         classify.Stats
	Result        *reconcile.Result
	Duration      time.Duration
}

// SyncService loads a planning workbook, reconciles it against the remote
// workspace, and journals the run.
type SyncService interface {
	SyncFile(ctx context.Context, path string) (*SyncReport, error)
}

// InspectService classifies a workbook locally for preview.
type InspectService interface {
	Inspect(ctx context.Context, path string) (*Inspection, error)
}

// ExportService writes a classified workbook to a flat file.
type ExportService interface {
	Export(ctx context.Context, path, outPath string) error
}

// HistoryService reads the sync journal.
type HistoryService interface {
	ListRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error)
	RunDetail(ctx context.Context, runID string) (*domain.SyncRun, []domain.SyncRunNode, error)
}
