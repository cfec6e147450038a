package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/mapping"
)

func exportNodes() []domain.Node {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	progress := 2.0
	return []domain.Node{
		{Code: "PR.0001", Title: "Alpha", Kind: domain.KindProject},
		{Code: "PR.0001.1", Title: "Design", Kind: domain.KindPhase, Status: "Em curso"},
		{Code: "PR.0001.1.1", Title: "Wireframes", Kind: domain.KindTask,
			ParentCode: "PR.0001.1", Assignee: "Ana",
			Planned:  domain.NormalizeRange(&start, &end),
			Progress: &progress},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(mapping.DefaultStatusVocabulary())
	require.NoError(t, w.WriteCSV(&buf, exportNodes()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{
		"Title", "Type", "Parent", "EDT",
		"Datas planeadas", "Datas reais", "Progresso (dias)", "Status", "Assignee",
	}, records[0])

	assert.Equal(t, "Project", records[1][1])
	assert.Equal(t, "Fase", records[2][1])
	assert.Equal(t, "In progress", records[2][7])

	task := records[3]
	assert.Equal(t, "Wireframes", task[0])
	assert.Equal(t, "Tarefa", task[1])
	assert.Equal(t, "PR.0001.1", task[2])
	assert.Equal(t, "PR.0001.1.1", task[3])
	assert.Equal(t, "2024-05-01 → 2024-05-10", task[4])
	assert.Equal(t, "", task[5])
	assert.Equal(t, "2", task[6])
	assert.Equal(t, "Not started", task[7])
	assert.Equal(t, "Ana", task[8])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	w := NewWriter(mapping.DefaultStatusVocabulary())
	require.NoError(t, w.WriteXLSX(path, exportNodes()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Export")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Title", rows[0][0])
	assert.Equal(t, "Wireframes", rows[3][0])
	assert.Equal(t, "PR.0001.1", rows[3][2])
}
