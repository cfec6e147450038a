package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// PlanRow is one planning row of a fixture workbook.
type PlanRow struct {
	Code     string
	Title    string
	Assignee string
	Status   string
}

// WriteWorkbook builds a planning workbook in the standard template layout:
// a PLANEAMENTO sheet with the header on row 2 and a FICHA PROJETO sheet
// with labeled project fields. Returns the file path.
func WriteWorkbook(t *testing.T, projectCode, projectName string, rows []PlanRow) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), "PLANEAMENTO")
	header := []interface{}{
		"EDT", "FASES/TAREFAS", "RESPONSÁVEL", "STATUS", "TRABALHO REALIZADO",
		"INÍCIO", "FIM", "INÍCIO", "DATA FIM",
	}
	if err := f.SetSheetRow("PLANEAMENTO", "A2", &header); err != nil {
		t.Fatalf("writing header: %v", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			t.Fatalf("computing cell: %v", err)
		}
		row := []interface{}{r.Code, r.Title, r.Assignee, r.Status}
		if err := f.SetSheetRow("PLANEAMENTO", cell, &row); err != nil {
			t.Fatalf("writing row: %v", err)
		}
	}

	if _, err := f.NewSheet("FICHA PROJETO"); err != nil {
		t.Fatalf("creating info sheet: %v", err)
	}
	name := []interface{}{"NOME DO PROJETO:", projectName}
	id := []interface{}{"ID PROJETO:", projectCode}
	if err := f.SetSheetRow("FICHA PROJETO", "A2", &name); err != nil {
		t.Fatalf("writing project name: %v", err)
	}
	if err := f.SetSheetRow("FICHA PROJETO", "A3", &id); err != nil {
		t.Fatalf("writing project id: %v", err)
	}

	path := filepath.Join(t.TempDir(), "planning.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("saving workbook: %v", err)
	}
	return path
}
