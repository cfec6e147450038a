package classify

import (
	"fmt"

	"github.com/ruipereira/plansync/internal/domain"
)

// nameGenerator produces non-empty, sheet-unique node titles. Remote lookups
// key on the title, so two rows must never share one.
type nameGenerator struct {
	used map[string]bool
}

func newNameGenerator() *nameGenerator {
	return &nameGenerator{used: make(map[string]bool)}
}

// Name returns the row title, substituting a kind-prefixed code for empty
// titles and suffixing duplicates with " _1", " _2"…
func (g *nameGenerator) Name(title string, code domain.EDT, kind domain.NodeKind) string {
	base := title
	if base == "" {
		prefix := "Task"
		if kind == domain.KindMilestone {
			prefix = "Milestone"
		}
		if code.IsEmpty() {
			base = prefix
		} else {
			base = fmt.Sprintf("%s %s", prefix, code)
		}
	}

	if !g.used[base] {
		g.used[base] = true
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s _%d", base, i)
		if !g.used[candidate] {
			g.used[candidate] = true
			return candidate
		}
	}
}
