package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ruipereira/plansync/internal/classify"
	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/mapping"
	"github.com/ruipereira/plansync/internal/notion"
	"github.com/ruipereira/plansync/internal/reconcile"
	"github.com/ruipereira/plansync/internal/repository"
	"github.com/ruipereira/plansync/internal/sheet"
)

type syncService struct {
	loader     *sheet.Loader
	classifier *classify.Classifier
	client     notion.Client
	cfg        reconcile.Config
	runs       repository.SyncRunRepo

	observer     UseCaseObserver
	syncObserver reconcile.Observer
}

// NewSyncService wires the full pipeline: workbook loading, classification,
// reconciliation, and journaling.
func NewSyncService(
	loader *sheet.Loader,
	classifier *classify.Classifier,
	client notion.Client,
	cfg reconcile.Config,
	runs repository.SyncRunRepo,
	syncObserver reconcile.Observer,
	observers ...UseCaseObserver,
) SyncService {
	if syncObserver == nil {
		syncObserver = reconcile.NoopObserver{}
	}
	return &syncService{
		loader:       loader,
		classifier:   classifier,
		client:       client,
		cfg:          cfg,
		runs:         runs,
		observer:     useCaseObserverOrNoop(observers),
		syncObserver: syncObserver,
	}
}

func (s *syncService) SyncFile(ctx context.Context, path string) (*SyncReport, error) {
	start := time.Now()
	report, err := s.syncFile(ctx, path, start)

	var result *reconcile.Result
	if report != nil {
		result = report.Result
	}
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "sync_file",
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
		Fields:    workbookEventFields(path, result),
	})

	return report, err
}

func (s *syncService) syncFile(ctx context.Context, path string, start time.Time) (*SyncReport, error) {
	nodes, stats, info, err := loadAndClassify(s.loader, s.classifier, path)
	if err != nil {
		return nil, err
	}

	mapper := mapping.New(mapping.DefaultStatusVocabulary(), classify.PhaseTitles(nodes))
	records := mapper.MapTasks(nodes)

	engine := reconcile.New(s.client, s.cfg, s.syncObserver)
	pageID, err := engine.EnsureProject(ctx, info)
	if err != nil {
		return nil, err
	}

	result, syncErr := engine.SyncTasks(ctx, pageID, records)

	report := &SyncReport{
		RunID:         uuid.NewString(),
		File:          path,
		Project:       info,
		ProjectPageID: pageID,
		Stats:         stats,
		Result:        result,
		Duration:      time.Since(start),
	}

	if err := s.journal(ctx, report, start); err != nil {
		s.syncObserver.OnWarning("recording sync run: " + err.Error())
	}
	return report, syncErr
}

func (s *syncService) journal(ctx context.Context, report *SyncReport, start time.Time) error {
	run := &domain.SyncRun{
		ID:            report.RunID,
		File:          filepath.Base(report.File),
		ProjectCode:   report.Project.Code,
		ProjectName:   report.Project.Name,
		ProjectPageID: report.ProjectPageID,
		Created:       report.Result.Created,
		Updated:       report.Result.Updated,
		Skipped:       report.Result.Skipped,
		Failed:        report.Result.Failed,
		StartedAt:     start.UTC(),
		FinishedAt:    time.Now().UTC(),
	}

	nodes := make([]domain.SyncRunNode, 0, len(report.Result.Nodes))
	for i, nr := range report.Result.Nodes {
		nodes = append(nodes, domain.SyncRunNode{
			RunID:    run.ID,
			Position: i,
			Code:     nr.Code,
			Title:    nr.Title,
			Kind:     nr.Kind,
			Outcome:  nr.Outcome,
			Message:  nr.Message,
		})
	}
	return s.runs.Create(ctx, run, nodes)
}

// loadAndClassify opens a workbook, classifies its rows, and resolves the
// project identity. When the info sheet is missing, the classified project
// row stands in for it.
func loadAndClassify(loader *sheet.Loader, classifier *classify.Classifier, path string) ([]domain.Node, classify.Stats, domain.ProjectInfo, error) {
	f, err := loader.Open(path)
	if err != nil {
		return nil, classify.Stats{}, domain.ProjectInfo{}, err
	}
	defer f.Close()

	_, rows, err := loader.PlanRows(f)
	if err != nil {
		return nil, classify.Stats{}, domain.ProjectInfo{}, err
	}

	nodes, stats := classifier.Classify(rows)

	info, err := loader.ProjectInfo(f)
	if err != nil {
		if !errors.Is(err, sheet.ErrProjectInfoNotFound) {
			return nil, classify.Stats{}, domain.ProjectInfo{}, err
		}
		project := classify.ProjectNode(nodes)
		if project == nil {
			return nil, classify.Stats{}, domain.ProjectInfo{},
				fmt.Errorf("%s: %w", path, sheet.ErrProjectInfoNotFound)
		}
		info = &domain.ProjectInfo{Code: project.Code, Name: project.Title}
	}
	return nodes, stats, *info, nil
}
