package domain

import "time"

// SyncRun is one recorded upload of a planning workbook.
type SyncRun struct {
	ID            string
	File          string
	ProjectCode   EDT
	ProjectName   string
	ProjectPageID string
	Created       int
	Updated       int
	Skipped       int
	Failed        int
	StartedAt     time.Time
	FinishedAt    time.Time
}

// SyncRunNode is the recorded outcome of one node within a run, kept in the
// original sheet order.
type SyncRunNode struct {
	RunID    string
	Code     EDT
	Title    string
	Kind     NodeKind
	Outcome  Outcome
	Message  string
	Position int
}
