package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ruipereira/plansync/internal/domain"
)

// writeWorkbook builds a minimal planning workbook on disk and returns its path.
func writeWorkbook(t *testing.T, planRows [][]any, infoRows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "PLANEAMENTO"))
	for i, row := range planRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("PLANEAMENTO", cell, &row))
	}

	if infoRows != nil {
		_, err := f.NewSheet("FICHA PROJETO")
		require.NoError(t, err)
		for i, row := range infoRows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("FICHA PROJETO", cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoader_PlanRows(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"PLANO DO PROJETO", "", ""},
		{"", "", ""},
		{"EDT", "FASES/TAREFAS", "RESPONSÁVEL", "INÍCIO", "FIM", "INÍCIO", "DATA FIM", "STATUS"},
		{"PR.0001", "Alpha", "", "", "", "", "", ""},
		{"PR.0001.1", "Design", "", "2024-05-01", "2024-05-10", "", "", "Em curso"},
		{"", "", "", "", "", "", "", ""},
		{"PR.0001.1.1", "Wireframe", "Ana", "2024-05-02", "2024-05-05", "2024-05-03", "", "Concluído"},
	}, nil)

	loader := NewLoader(DefaultConfig())
	f, err := loader.Open(path)
	require.NoError(t, err)
	defer f.Close()

	labels, rows, err := loader.PlanRows(f)
	require.NoError(t, err)

	// Duplicate "INÍCIO" headers are disambiguated pandas-style.
	assert.Contains(t, labels, "INÍCIO")
	assert.Contains(t, labels, "INÍCIO.1")

	// The blank row is dropped, the rest keep their sheet numbers.
	require.Len(t, rows, 3)
	assert.Equal(t, 4, rows[0].Number)
	assert.Equal(t, "PR.0001", rows[0].Get("EDT"))
	assert.Equal(t, "Design", rows[1].Get("FASES/TAREFAS"))
	assert.Equal(t, "2024-05-01", rows[1].Get("INÍCIO"))
	assert.Equal(t, "2024-05-03", rows[2].Get("INÍCIO.1"))
	assert.Equal(t, "Ana", rows[2].Get("RESPONSÁVEL"))
}

func TestLoader_PlanRows_HeaderNotFound(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"EDT", "TAREFAS", "RESPONSÁVEL"},
		{"PR.0001", "Alpha", ""},
	}, nil)

	loader := NewLoader(DefaultConfig())
	f, err := loader.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, _, err = loader.PlanRows(f)
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestLoader_PlanRows_RequiredColumnMissing(t *testing.T) {
	// The marker row is present but the code column is gone.
	path := writeWorkbook(t, [][]any{
		{"FASES/TAREFAS", "RESPONSÁVEL", "STATUS"},
		{"Design", "Ana", "Em curso"},
	}, nil)

	loader := NewLoader(DefaultConfig())
	f, err := loader.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, _, err = loader.PlanRows(f)
	assert.ErrorIs(t, err, ErrColumnMissing)
	assert.ErrorContains(t, err, "EDT")
}

func TestLoader_PlanRows_SheetNotFound(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	require.NoError(t, f.SaveAs(path))

	loader := NewLoader(DefaultConfig())
	wb, err := loader.Open(path)
	require.NoError(t, err)
	defer wb.Close()

	_, _, err = loader.PlanRows(wb)
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoader_ProjectInfo_FromLabels(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"EDT", "FASES/TAREFAS"},
	}, [][]any{
		{"", "NOME DO PROJETO:", "Projeto Alpha", "", "", "", "ID PROJETO:", "PR.0001"},
	})

	loader := NewLoader(DefaultConfig())
	f, err := loader.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := loader.ProjectInfo(f)
	require.NoError(t, err)
	assert.Equal(t, "Projeto Alpha", info.Name)
	assert.Equal(t, domain.EDT("PR.0001"), info.Code)
}

func TestLoader_ProjectInfo_FallbackScan(t *testing.T) {
	// No info sheet; the code and name sit at the top of the planning sheet.
	path := writeWorkbook(t, [][]any{
		{"", "", ""},
		{"PR.0042", "Projeto Beta", ""},
		{"EDT", "FASES/TAREFAS", "RESPONSÁVEL"},
	}, nil)

	loader := NewLoader(DefaultConfig())
	f, err := loader.Open(path)
	require.NoError(t, err)
	defer f.Close()

	info, err := loader.ProjectInfo(f)
	require.NoError(t, err)
	assert.Equal(t, "Projeto Beta", info.Name)
	assert.Equal(t, domain.EDT("PR.0042"), info.Code)
}

func TestLoader_ProjectInfo_NotFound(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"EDT", "FASES/TAREFAS"},
	}, nil)

	loader := NewLoader(DefaultConfig())
	f, err := loader.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = loader.ProjectInfo(f)
	assert.ErrorIs(t, err, ErrProjectInfoNotFound)
}
