// Package export writes classified planning nodes to flat files, using the
// same property vocabulary the remote databases use.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/mapping"
)

// Header is the exported column order.
var Header = []string{
	"Title",
	"Type",
	"Parent",
	mapping.PropEDT,
	mapping.PropPlannedDates,
	mapping.PropActualDates,
	mapping.PropProgress,
	mapping.PropStatus,
	mapping.PropAssignee,
}

// Writer renders nodes as export rows.
type Writer struct {
	vocab mapping.StatusVocabulary
}

func NewWriter(vocab mapping.StatusVocabulary) *Writer {
	return &Writer{vocab: vocab}
}

// WriteCSV writes the header and one row per node to w.
func (wr *Writer) WriteCSV(w io.Writer, nodes []domain.Node) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, n := range nodes {
		if err := cw.Write(wr.row(n)); err != nil {
			return fmt.Errorf("writing row %d: %w", n.Row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes nodes to a single-sheet workbook at path.
func (wr *Writer) WriteXLSX(path string, nodes []domain.Node) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Export"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	if err := f.SetSheetRow(sheetName, "A1", &Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, n := range nodes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell: %w", err)
		}
		row := wr.row(n)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", n.Row, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func (wr *Writer) row(n domain.Node) []string {
	return []string{
		n.Title,
		typeLabel(n.Kind),
		n.ParentCode.String(),
		n.Code.String(),
		rangeLabel(n.Planned),
		rangeLabel(n.Actual),
		progressLabel(n.Progress),
		wr.vocab.Canonical(n.Status),
		n.Assignee,
	}
}

func typeLabel(kind domain.NodeKind) string {
	if kind == domain.KindProject {
		return "Project"
	}
	return mapping.TypeName(kind)
}

func rangeLabel(r *domain.DateRange) string {
	if r == nil {
		return ""
	}
	return r.String()
}

func progressLabel(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
