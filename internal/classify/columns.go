package classify

// Columns names the planning-sheet columns the classifier reads. The actual
// start column carries the ".1" suffix because the template reuses the
// "INÍCIO" label for planned and actual dates.
type Columns struct {
	Code         string
	Title        string
	Assignee     string
	Status       string
	Progress     string
	PlannedStart string
	PlannedEnd   string
	ActualStart  string
	ActualEnd    string
}

// DefaultColumns matches the standard Portuguese planning template.
func DefaultColumns() Columns {
	return Columns{
		Code:         "EDT",
		Title:        "FASES/TAREFAS",
		Assignee:     "RESPONSÁVEL",
		Status:       "STATUS",
		Progress:     "TRABALHO REALIZADO",
		PlannedStart: "INÍCIO",
		PlannedEnd:   "FIM",
		ActualStart:  "INÍCIO.1",
		ActualEnd:    "DATA FIM",
	}
}
