package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ruipereira/plansync/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// OutcomeIndicator returns a colored marker for a reconciliation outcome,
// such as "+ created" or "✖ failed".
func OutcomeIndicator(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeCreated:
		return StyleGreen.Render("+ created")
	case domain.OutcomeUpdated:
		return StyleYellow.Render("~ updated")
	case domain.OutcomeSkipped:
		return StyleDim.Render("= skipped")
	case domain.OutcomeFailed:
		return StyleRed.Render("✖ failed")
	default:
		return StyleDim.Render(string(outcome))
	}
}

// KindBadge returns a colored label for a node kind.
func KindBadge(kind domain.NodeKind) string {
	switch kind {
	case domain.KindProject:
		return StylePurple.Render("PROJECT")
	case domain.KindPhase:
		return StyleBlue.Render("PHASE")
	case domain.KindMilestone:
		return StyleYellow.Render("MILESTONE")
	default:
		return StyleFg.Render("TASK")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
