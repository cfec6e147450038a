package service

import (
	"context"

	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/repository"
)

type historyService struct {
	runs repository.SyncRunRepo
}

// NewHistoryService creates a read-only view over the sync journal.
func NewHistoryService(runs repository.SyncRunRepo) HistoryService {
	return &historyService{runs: runs}
}

func (s *historyService) ListRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runs.ListRecent(ctx, limit)
}

func (s *historyService) RunDetail(ctx context.Context, runID string) (*domain.SyncRun, []domain.SyncRunNode, error) {
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	nodes, err := s.runs.ListNodes(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	return run, nodes, nil
}
