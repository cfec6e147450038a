package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ruipereira/plansync/internal/domain"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderNodeTree renders classified nodes as an indented tree. Indentation
// follows the structural depth of each code relative to the project; kind
// badges are right-aligned.
func RenderNodeTree(nodes []domain.Node) string {
	if len(nodes) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(nodes))
	maxContentWidth := 0

	for idx, n := range nodes {
		level := treeLevel(n)
		var prefix string
		if level > 0 {
			for i := 1; i < level; i++ {
				prefix += treePipe
			}
			if idx == len(nodes)-1 || treeLevel(nodes[idx+1]) < level {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := n.Title
		switch n.Kind {
		case domain.KindProject:
			title = Bold(title)
		case domain.KindPhase:
			title = StyleBlue.Render(title)
		case domain.KindMilestone:
			title = StyleYellow.Render("◆ " + title)
		}
		if n.LowConfidence {
			title += " " + StyleRed.Render("(?)")
		}
		if !n.Code.IsEmpty() {
			title += " " + Dim(n.Code.String())
		}

		content := prefix + title
		lines[idx].content = content
		lines[idx].badge = KindBadge(n.Kind)

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	var b strings.Builder
	for _, li := range lines {
		pad := maxContentWidth - lipgloss.Width(li.content)
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "%s%s  %s\n", li.content, strings.Repeat(" ", pad), li.badge)
	}
	return b.String()
}

// treeLevel converts a node's structural depth to an indent level, with the
// project row at level zero. Codeless rows sit at task level.
func treeLevel(n domain.Node) int {
	if n.Code.IsEmpty() {
		return 2
	}
	level := n.Code.Depth() - domain.ProjectDepth
	if level < 0 {
		level = 0
	}
	return level
}
