// Package repository persists the sync journal. Each run records the
// workbook, the project it targeted, outcome counts, and the per-node
// results in sheet order.
package repository

import (
	"context"
	"errors"

	"github.com/ruipereira/plansync/internal/domain"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// SyncRunRepo stores completed sync runs and their per-node outcomes.
type SyncRunRepo interface {
	// Create persists a run together with its node outcomes.
	Create(ctx context.Context, run *domain.SyncRun, nodes []domain.SyncRunNode) error

	// GetByID returns a single run.
	GetByID(ctx context.Context, id string) (*domain.SyncRun, error)

	// ListRecent returns the most recent runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error)

	// ListNodes returns a run's node outcomes in sheet order.
	ListNodes(ctx context.Context, runID string) ([]domain.SyncRunNode, error)
}
