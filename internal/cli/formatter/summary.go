package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ruipereira/plansync/internal/classify"
	"github.com/ruipereira/plansync/internal/domain"
	"github.com/ruipereira/plansync/internal/reconcile"
	"github.com/ruipereira/plansync/internal/service"
)

// RenderStats renders a one-line classification summary.
func RenderStats(stats classify.Stats) string {
	parts := []string{
		fmt.Sprintf("%d phases", stats.Phases),
		fmt.Sprintf("%d tasks", stats.Tasks),
		fmt.Sprintf("%d milestones", stats.Milestones),
	}
	line := strings.Join(parts, Dim(" · "))
	if stats.Degraded > 0 {
		line += "  " + StyleRed.Render(fmt.Sprintf("(%d unclassified)", stats.Degraded))
	}
	return line
}

// RenderSyncReport renders the outcome of a sync run: header, per-node
// outcomes, counts, and the error tail when rows failed.
func RenderSyncReport(report *service.SyncReport) string {
	var b strings.Builder

	b.WriteString(Header(projectLabel(report.Project)) + "\n\n")

	rows := make([][]string, 0, len(report.Result.Nodes))
	for _, nr := range report.Result.Nodes {
		rows = append(rows, []string{
			OutcomeIndicator(nr.Outcome),
			nr.Title,
			nr.Code.String(),
			KindBadge(nr.Kind),
		})
	}
	b.WriteString(RenderTable([]string{"", "Title", "EDT", "Type"}, rows))

	b.WriteString("\n" + renderCounts(report.Result) + "\n")
	b.WriteString(Dim(fmt.Sprintf("run %s · %s\n", report.RunID, report.Duration.Round(time.Millisecond))))

	if len(report.Result.Errors) > 0 {
		b.WriteString("\n" + StyleRed.Render("Errors:") + "\n")
		for _, msg := range report.Result.Errors {
			b.WriteString("  " + StyleRed.Render("✖") + " " + msg + "\n")
		}
		if report.Result.Failed > len(report.Result.Errors) {
			b.WriteString(Dim(fmt.Sprintf("  … and %d more\n",
				report.Result.Failed-len(report.Result.Errors))))
		}
	}
	return b.String()
}

// RenderInspection renders a local classification preview.
func RenderInspection(in *service.Inspection) string {
	var b strings.Builder
	b.WriteString(Header(projectLabel(in.Project)) + "\n\n")
	b.WriteString(RenderNodeTree(in.Nodes))
	b.WriteString("\n" + RenderStats(in.Stats) + "\n")
	return b.String()
}

// RenderRunList renders journal entries, newest first.
func RenderRunList(runs []*domain.SyncRun) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			TruncID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.ProjectName,
			r.File,
			fmt.Sprintf("+%d ~%d =%d ✖%d", r.Created, r.Updated, r.Skipped, r.Failed),
		})
	}
	return RenderTable([]string{"Run", "Started", "Project", "File", "Outcome"}, rows)
}

// RenderRunDetail renders one journal entry with its node outcomes.
func RenderRunDetail(run *domain.SyncRun, nodes []domain.SyncRunNode) string {
	var b strings.Builder
	b.WriteString(Header(run.ProjectName) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s · %s · run %s\n\n",
		run.File, run.StartedAt.Local().Format("2006-01-02 15:04"), run.ID)))

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		msg := n.Message
		if msg != "" {
			msg = StyleRed.Render(msg)
		}
		rows = append(rows, []string{
			OutcomeIndicator(n.Outcome),
			n.Title,
			n.Code.String(),
			msg,
		})
	}
	b.WriteString(RenderTable([]string{"", "Title", "EDT", ""}, rows))
	return b.String()
}

func renderCounts(result *reconcile.Result) string {
	return strings.Join([]string{
		StyleGreen.Render(fmt.Sprintf("%d created", result.Created)),
		StyleYellow.Render(fmt.Sprintf("%d updated", result.Updated)),
		Dim(fmt.Sprintf("%d skipped", result.Skipped)),
		StyleRed.Render(fmt.Sprintf("%d failed", result.Failed)),
	}, Dim(" · "))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

func projectLabel(info domain.ProjectInfo) string {
	if info.Code.IsEmpty() {
		return info.Name
	}
	return fmt.Sprintf("%s (%s)", info.Name, info.Code)
}
