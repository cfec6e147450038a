package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruipereira/plansync/internal/classify"
	"github.com/ruipereira/plansync/internal/export"
	"github.com/ruipereira/plansync/internal/sheet"
)

type exportService struct {
	loader     *sheet.Loader
	classifier *classify.Classifier
	writer     *export.Writer
	observer   UseCaseObserver
}

// NewExportService creates a service that classifies a workbook and writes
// it back out as CSV or XLSX, chosen by the output extension.
func NewExportService(loader *sheet.Loader, classifier *classify.Classifier, writer *export.Writer, observers ...UseCaseObserver) ExportService {
	return &exportService{
		loader:     loader,
		classifier: classifier,
		writer:     writer,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *exportService) Export(ctx context.Context, path, outPath string) error {
	start := time.Now()
	err := s.export(path, outPath)

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "export_file",
		Duration:  time.Since(start),
		Success:   err == nil,
		Err:       err,
		StartedAt: start,
		Fields:    map[string]any{"out": filepath.Base(outPath)},
	})
	return err
}

func (s *exportService) export(path, outPath string) error {
	nodes, _, _, err := loadAndClassify(s.loader, s.classifier, path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".csv":
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		return s.writer.WriteCSV(f, nodes)
	case ".xlsx":
		return s.writer.WriteXLSX(outPath, nodes)
	default:
		return fmt.Errorf("unsupported export format %q (use .csv or .xlsx)", filepath.Ext(outPath))
	}
}
