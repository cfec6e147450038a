package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ruipereira/plansync/internal/domain"
)

var (
	// ErrSheetNotFound indicates the workbook has no planning sheet.
	ErrSheetNotFound = errors.New("planning sheet not found")

	// ErrHeaderNotFound indicates the header marker row is missing from the
	// planning sheet. Fatal to the file, not to the batch.
	ErrHeaderNotFound = errors.New("header marker row not found")

	// ErrColumnMissing indicates the located header row lacks a required
	// column. Fatal to the file, not to the batch.
	ErrColumnMissing = errors.New("required column missing")

	// ErrProjectInfoNotFound indicates neither the labeled info cells nor the
	// EDT fallback scan produced a project name and code.
	ErrProjectInfoNotFound = errors.New("project name and code not found")
)

// Config locates the planning table and project info inside a workbook.
type Config struct {
	PlanningSheet  string
	InfoSheet      string
	HeaderMarker   string
	HeaderScanRows int
	NameLabel      string
	IDLabel        string
	CodePrefix     string // EDT fallback scan, e.g. "PR."

	// RequiredColumns must appear in the header row. The title column is
	// the header marker itself, so it needs no separate entry.
	RequiredColumns []string
}

// DefaultConfig matches the standard Portuguese planning template.
func DefaultConfig() Config {
	return Config{
		PlanningSheet:   "PLANEAMENTO",
		InfoSheet:       "FICHA PROJETO",
		HeaderMarker:    "FASES/TAREFAS",
		HeaderScanRows:  10,
		NameLabel:       "NOME DO PROJETO",
		IDLabel:         "ID PROJETO",
		CodePrefix:      "PR.",
		RequiredColumns: []string{"EDT"},
	}
}

// Loader reads planning workbooks. Read-only; the workbook is never written.
type Loader struct {
	cfg Config
}

func NewLoader(cfg Config) *Loader {
	return &Loader{cfg: cfg}
}

// Open opens the workbook at path. The caller owns the returned file and
// must Close it.
func (l *Loader) Open(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return f, nil
}

// PlanRows locates the header row in the planning sheet and returns the
// column labels plus one RawRow per non-blank row below it.
func (l *Loader) PlanRows(f *excelize.File) ([]string, []domain.RawRow, error) {
	sheetName, err := l.findSheet(f, l.cfg.PlanningSheet)
	if err != nil {
		return nil, nil, err
	}

	grid, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}

	headerIdx := -1
	for i, row := range grid {
		if i >= l.cfg.HeaderScanRows {
			break
		}
		for _, cell := range row {
			if strings.TrimSpace(cell) == l.cfg.HeaderMarker {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil, fmt.Errorf("%w: no cell equal to %q in the first %d rows of %q",
			ErrHeaderNotFound, l.cfg.HeaderMarker, l.cfg.HeaderScanRows, sheetName)
	}

	labels := headerLabels(grid[headerIdx])
	for _, req := range l.cfg.RequiredColumns {
		if !hasLabel(labels, req) {
			return nil, nil, fmt.Errorf("%w: no %q column in the header row of %q",
				ErrColumnMissing, req, sheetName)
		}
	}

	var rows []domain.RawRow
	for i := headerIdx + 1; i < len(grid); i++ {
		if isBlank(grid[i]) {
			continue
		}
		cells := make(map[string]string, len(labels))
		for col, label := range labels {
			if label == "" {
				continue
			}
			if col < len(grid[i]) {
				cells[label] = grid[i][col]
			} else {
				cells[label] = ""
			}
		}
		rows = append(rows, domain.RawRow{Number: i + 1, Labels: labels, Cells: cells})
	}

	return labels, rows, nil
}

// ProjectInfo extracts the project name and EDT code. It first scans the
// info sheet for the configured labels (value in the next non-empty cell to
// the right), then falls back to scanning the top of the planning sheet for
// a cell starting with the code prefix, with the name in the next column.
func (l *Loader) ProjectInfo(f *excelize.File) (*domain.ProjectInfo, error) {
	info := &domain.ProjectInfo{}

	if sheetName, err := l.findSheet(f, l.cfg.InfoSheet); err == nil {
		grid, err := f.GetRows(sheetName)
		if err == nil {
			for _, row := range grid {
				for col, cell := range row {
					label := strings.TrimSuffix(strings.TrimSpace(cell), ":")
					switch {
					case strings.EqualFold(label, l.cfg.NameLabel) && info.Name == "":
						info.Name = nextValue(row, col)
					case strings.EqualFold(label, l.cfg.IDLabel) && info.Code.IsEmpty():
						info.Code = domain.ParseEDT(nextValue(row, col))
					}
				}
			}
		}
	}

	if info.Name != "" && !info.Code.IsEmpty() {
		return info, nil
	}

	if err := l.scanPlanningForInfo(f, info); err != nil {
		return nil, err
	}
	if info.Name == "" || info.Code.IsEmpty() {
		return nil, ErrProjectInfoNotFound
	}
	return info, nil
}

func (l *Loader) scanPlanningForInfo(f *excelize.File, info *domain.ProjectInfo) error {
	sheetName, err := l.findSheet(f, l.cfg.PlanningSheet)
	if err != nil {
		return err
	}
	grid, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("reading sheet %q: %w", sheetName, err)
	}

	for i, row := range grid {
		if i >= l.cfg.HeaderScanRows {
			break
		}
		for col, cell := range row {
			value := strings.TrimSpace(cell)
			if !strings.HasPrefix(value, l.cfg.CodePrefix) {
				continue
			}
			name := nextValue(row, col)
			if name == "" {
				continue
			}
			if info.Code.IsEmpty() {
				info.Code = domain.ParseEDT(value)
			}
			if info.Name == "" {
				info.Name = name
			}
			return nil
		}
	}
	return nil
}

// findSheet matches the configured sheet name case-insensitively; templates
// are inconsistent about casing ("PLANEAMENTO" vs "Planeamento").
func (l *Loader) findSheet(f *excelize.File, want string) (string, error) {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, want) {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: no sheet named %q (have %v)", ErrSheetNotFound, want, f.GetSheetList())
}

// headerLabels trims the header cells and disambiguates duplicate labels
// with ".1", ".2"… suffixes, so the two "INÍCIO" columns (planned and actual
// start) stay addressable.
func headerLabels(header []string) []string {
	labels := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, cell := range header {
		label := strings.TrimSpace(cell)
		if label == "" {
			labels[i] = ""
			continue
		}
		if n, dup := seen[label]; dup {
			seen[label] = n + 1
			labels[i] = fmt.Sprintf("%s.%d", label, n)
		} else {
			seen[label] = 1
			labels[i] = label
		}
	}
	return labels
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, want) {
			return true
		}
	}
	return false
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func nextValue(row []string, col int) string {
	for i := col + 1; i < len(row); i++ {
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}
