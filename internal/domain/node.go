package domain

import (
	"sort"
	"strings"
)

// RawRow is one physical sheet row below the header: a mapping from column
// label to cell text, plus the 1-based sheet row number for reporting.
// Labels carries the header labels in column order so inexact lookups stay
// deterministic.
type RawRow struct {
	Number int
	Labels []string
	Cells  map[string]string
}

// Get returns the trimmed cell under the given column label. Lookup is exact
// first, then case-insensitive, then substring, since planning workbooks are
// not consistent about header casing or whitespace. When several labels
// match, the leftmost column wins.
func (r RawRow) Get(label string) string {
	if v, ok := r.Cells[label]; ok {
		return strings.TrimSpace(v)
	}
	keys := r.orderedLabels()
	for _, k := range keys {
		if strings.EqualFold(strings.TrimSpace(k), label) {
			return strings.TrimSpace(r.Cells[k])
		}
	}
	lower := strings.ToLower(label)
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), lower) {
			return strings.TrimSpace(r.Cells[k])
		}
	}
	return ""
}

// orderedLabels returns the cell keys in sheet column order. Rows built
// without header labels fall back to sorted keys.
func (r RawRow) orderedLabels() []string {
	if len(r.Labels) > 0 {
		keys := make([]string, 0, len(r.Labels))
		for _, l := range r.Labels {
			if _, ok := r.Cells[l]; ok {
				keys = append(keys, l)
			}
		}
		return keys
	}
	keys := make([]string, 0, len(r.Cells))
	for k := range r.Cells {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Node is one classified planning row. Nodes are created once during
// classification and not mutated afterwards.
type Node struct {
	Code     EDT
	Title    string
	Kind     NodeKind
	Assignee string
	Status   string // raw sheet vocabulary; translated during mapping

	// ParentCode is the code of the enclosing node one structural level up,
	// or "" when the node hangs directly under the project.
	ParentCode EDT

	Planned  *DateRange
	Actual   *DateRange
	Progress *float64

	Row int

	// LowConfidence marks rows that could not be classified from their code
	// and fell back to the task default.
	LowConfidence bool
}

// IsMilestoneRow reports whether a title carries the milestone marker.
func IsMilestoneRow(title string) bool {
	return strings.Contains(strings.ToUpper(title), MilestoneTitleMarker)
}

// ProjectInfo identifies the project a planning workbook belongs to.
type ProjectInfo struct {
	Code EDT
	Name string
}
