package service

import (
	"context"
	"time"

	"github.com/ruipereira/plansync/internal/classify"
	"github.com/ruipereira/plansync/internal/sheet"
)

type inspectService struct {
	loader     *sheet.Loader
	classifier *classify.Classifier
	observer   UseCaseObserver
}

// NewInspectService creates a service that classifies workbooks locally,
// without touching the remote workspace.
func NewInspectService(loader *sheet.Loader, classifier *classify.Classifier, observers ...UseCaseObserver) InspectService {
	return &inspectService{
		loader:     loader,
		classifier: classifier,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *inspectService) Inspect(ctx context.Context, path string) (*Inspection, error) {
	start := time.Now()

	nodes, stats, info, err := loadAndClassify(s.loader, s.classifier, path)

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "inspect_file",
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
		Fields:    workbookEventFields(path, nil),
	})
	if err != nil {
		return nil, err
	}

	return &Inspection{
		File:    path,
		Project: info,
		Nodes:   nodes,
		Stats:   stats,
	}, nil
}
