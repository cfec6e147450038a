package reconcile

import "github.com/ruipereira/plansync/internal/domain"

// errorTailSize bounds how many failure messages a result keeps. Counts stay
// exact; only the message list is truncated.
const errorTailSize = 5

// NodeResult records the outcome of reconciling one node.
type NodeResult struct {
	Code    domain.EDT
	Title   string
	Kind    domain.NodeKind
	Outcome domain.Outcome
	PageID  string
	Message string
}

// Result aggregates a full reconciliation pass, in row order.
type Result struct {
	Created int
	Updated int
	Skipped int
	Failed  int

	Nodes  []NodeResult
	Errors []string
}

func (r *Result) record(nr NodeResult) {
	r.Nodes = append(r.Nodes, nr)
	switch nr.Outcome {
	case domain.OutcomeCreated:
		r.Created++
	case domain.OutcomeUpdated:
		r.Updated++
	case domain.OutcomeSkipped:
		r.Skipped++
	case domain.OutcomeFailed:
		r.Failed++
		if len(r.Errors) < errorTailSize {
			r.Errors = append(r.Errors, nr.Title+": "+nr.Message)
		}
	}
}

// Total returns the number of reconciled nodes.
func (r *Result) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Failed
}

// Observer receives progress events during reconciliation.
type Observer interface {
	OnNodeSynced(nr NodeResult)
	OnWarning(msg string)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnNodeSynced(NodeResult) {}
func (NoopObserver) OnWarning(string)        {}
