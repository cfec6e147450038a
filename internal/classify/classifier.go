// Package classify turns raw planning rows into a typed node tree. Kind and
// parent assignment derive purely from the EDT code and row order; the
// classifier never fails, it degrades unclassifiable rows to tasks.
package classify

import (
	"strconv"
	"strings"

	"github.com/ruipereira/plansync/internal/domain"
)

// Stats counts classified rows per kind.
type Stats struct {
	Projects   int
	Phases     int
	Tasks      int
	Milestones int
	Degraded   int
}

// Classifier assigns a kind and parent code to each planning row.
type Classifier struct {
	cols Columns
}

func New(cols Columns) *Classifier {
	return &Classifier{cols: cols}
}

// Classify folds over the ordered row sequence and emits one node per row.
// Parent resolution keeps a last-seen-code-per-depth table local to the
// fold: emitting a node at depth D clears every entry at depth >= D, so the
// table behaves like a stack and tolerates skipped levels.
// Running it twice over the same rows yields identical assignments.
func (c *Classifier) Classify(rows []domain.RawRow) ([]domain.Node, Stats) {
	nodes := make([]domain.Node, 0, len(rows))
	var stats Stats

	names := newNameGenerator()
	lastSeen := make(map[int]domain.EDT)
	projectSeen := false

	for _, row := range rows {
		code := domain.ParseEDT(row.Get(c.cols.Code))
		title := row.Get(c.cols.Title)
		assignee := row.Get(c.cols.Assignee)

		if code.IsEmpty() && title == "" {
			continue
		}

		kind, degraded := c.kindOf(code, title, assignee, &projectSeen)

		node := domain.Node{
			Code:          code,
			Kind:          kind,
			Assignee:      assignee,
			Status:        row.Get(c.cols.Status),
			Planned:       c.dateRange(row, c.cols.PlannedStart, c.cols.PlannedEnd),
			Actual:        c.dateRange(row, c.cols.ActualStart, c.cols.ActualEnd),
			Progress:      parseProgress(row.Get(c.cols.Progress)),
			Row:           row.Number,
			LowConfidence: degraded,
		}
		node.Title = names.Name(title, code, kind)
		node.ParentCode = resolveParent(lastSeen, code, kind)

		if !code.IsEmpty() {
			depth := code.Depth()
			for d := range lastSeen {
				if d >= depth {
					delete(lastSeen, d)
				}
			}
			lastSeen[depth] = code.Base()
		}

		switch kind {
		case domain.KindProject:
			stats.Projects++
		case domain.KindPhase:
			stats.Phases++
		case domain.KindMilestone:
			stats.Milestones++
		default:
			stats.Tasks++
		}
		if degraded {
			stats.Degraded++
		}

		nodes = append(nodes, node)
	}

	return nodes, stats
}

// kindOf applies the classification precedence: title marker, then code
// suffix, then code depth, then assignee presence. Rows without a usable
// code fall back to task and are flagged.
func (c *Classifier) kindOf(code domain.EDT, title, assignee string, projectSeen *bool) (domain.NodeKind, bool) {
	if domain.IsMilestoneRow(title) || code.HasMilestoneSuffix() {
		return domain.KindMilestone, false
	}

	depth := code.Depth()
	switch {
	case depth == domain.ProjectDepth:
		if !*projectSeen {
			*projectSeen = true
			return domain.KindProject, false
		}
		return domain.KindPhase, false
	case depth == domain.PhaseDepth:
		return domain.KindPhase, false
	case depth > domain.PhaseDepth:
		if assignee == "" {
			return domain.KindPhase, false
		}
		return domain.KindTask, false
	default:
		// Code missing or too shallow to place in the hierarchy.
		return domain.KindTask, true
	}
}

// resolveParent walks the depth table from one level above the node down to
// phase depth and takes the first entry whose code is a strict dot-prefix of
// the node's code. Anything shallower would attach the node to the project
// row itself, which the task-parent relation never does. Milestones and
// tasks directly under the project keep an empty parent, and phases hang off
// the project implicitly.
func resolveParent(lastSeen map[int]domain.EDT, code domain.EDT, kind domain.NodeKind) domain.EDT {
	if kind == domain.KindProject || kind == domain.KindPhase || code.IsEmpty() {
		return ""
	}
	base := code.Base()
	for d := base.Depth() - 1; d >= domain.PhaseDepth; d-- {
		candidate, ok := lastSeen[d]
		if !ok {
			continue
		}
		if candidate.IsPrefixOf(base) {
			return candidate
		}
	}
	return ""
}

func (c *Classifier) dateRange(row domain.RawRow, startCol, endCol string) *domain.DateRange {
	start := domain.ParseCellDate(row.Get(startCol))
	end := domain.ParseCellDate(row.Get(endCol))
	return domain.NormalizeRange(start, end)
}

// parseProgress coerces the progress cell to a number. Empty stays nil;
// non-numeric text defaults to zero rather than failing the row.
func parseProgress(s string) *float64 {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(strings.ReplaceAll(s, ",", "."), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		zero := 0.0
		return &zero
	}
	return &v
}

// PhaseTitles indexes phase titles by code, for the phase select property.
func PhaseTitles(nodes []domain.Node) map[domain.EDT]string {
	titles := make(map[domain.EDT]string)
	for _, n := range nodes {
		if n.Kind == domain.KindPhase && !n.Code.IsEmpty() {
			titles[n.Code] = n.Title
		}
	}
	return titles
}

// ProjectNode returns the classified project row, if the sheet has one.
func ProjectNode(nodes []domain.Node) *domain.Node {
	for i := range nodes {
		if nodes[i].Kind == domain.KindProject {
			return &nodes[i]
		}
	}
	return nil
}
