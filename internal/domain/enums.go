package domain

type NodeKind string

const (
	KindProject   NodeKind = "project"
	KindPhase     NodeKind = "phase"
	KindTask      NodeKind = "task"
	KindMilestone NodeKind = "milestone"
)

// ProjectDepth and PhaseDepth are the structural depths (dot-segment counts)
// at which project and phase rows appear in the planning sheet.
const (
	ProjectDepth = 2
	PhaseDepth   = 3
)

// Outcome is the terminal state of one node's reconciliation against the
// remote store.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// MilestoneTitleMarker flags a milestone row by title, independent of the
// EDT code suffix.
const MilestoneTitleMarker = "MILESTONE:"
