package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ruipereira/plansync/internal/domain"
)

// SQLiteSyncRunRepo implements SyncRunRepo using a SQLite database.
type SQLiteSyncRunRepo struct {
	db *sql.DB
}

// NewSQLiteSyncRunRepo creates a new SQLiteSyncRunRepo.
func NewSQLiteSyncRunRepo(db *sql.DB) *SQLiteSyncRunRepo {
	return &SQLiteSyncRunRepo{db: db}
}

func (r *SQLiteSyncRunRepo) Create(ctx context.Context, run *domain.SyncRun, nodes []domain.SyncRunNode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var finished *time.Time
	if !run.FinishedAt.IsZero() {
		finished = &run.FinishedAt
	}

	query := `INSERT INTO sync_runs (id, file, project_code, project_name, project_page_id,
		created, updated, skipped, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		run.ID,
		run.File,
		string(run.ProjectCode),
		run.ProjectName,
		run.ProjectPageID,
		run.Created,
		run.Updated,
		run.Skipped,
		run.Failed,
		run.StartedAt.UTC().Format(time.RFC3339),
		nullableTimeToString(finished, time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting sync run: %w", err)
	}

	nodeQuery := `INSERT INTO sync_run_nodes (run_id, position, code, title, kind, outcome, message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, n := range nodes {
		if _, err := tx.ExecContext(ctx, nodeQuery,
			run.ID,
			n.Position,
			string(n.Code),
			n.Title,
			string(n.Kind),
			string(n.Outcome),
			n.Message,
		); err != nil {
			return fmt.Errorf("inserting sync run node %d: %w", n.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sync run: %w", err)
	}
	committed = true
	return nil
}

func (r *SQLiteSyncRunRepo) GetByID(ctx context.Context, id string) (*domain.SyncRun, error) {
	query := `SELECT id, file, project_code, project_name, project_page_id,
		created, updated, skipped, failed, started_at, finished_at
		FROM sync_runs WHERE id = ?`
	return r.scanRun(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteSyncRunRepo) ListRecent(ctx context.Context, limit int) ([]*domain.SyncRun, error) {
	query := `SELECT id, file, project_code, project_name, project_page_id,
		created, updated, skipped, failed, started_at, finished_at
		FROM sync_runs ORDER BY started_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.SyncRun
	for rows.Next() {
		run, err := r.scanRunRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return runs, nil
}

func (r *SQLiteSyncRunRepo) ListNodes(ctx context.Context, runID string) ([]domain.SyncRunNode, error) {
	query := `SELECT run_id, position, code, title, kind, outcome, message
		FROM sync_run_nodes WHERE run_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing sync run nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.SyncRunNode
	for rows.Next() {
		var n domain.SyncRunNode
		var code, kind, outcome string
		if err := rows.Scan(&n.RunID, &n.Position, &code, &n.Title, &kind, &outcome, &n.Message); err != nil {
			return nil, fmt.Errorf("scanning sync run node: %w", err)
		}
		n.Code = domain.EDT(code)
		n.Kind = domain.NodeKind(kind)
		n.Outcome = domain.Outcome(outcome)
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync run nodes: %w", err)
	}
	return nodes, nil
}

func (r *SQLiteSyncRunRepo) scanRun(row *sql.Row) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var code, startedAt string
	var finishedAt sql.NullString

	err := row.Scan(
		&run.ID, &run.File, &code, &run.ProjectName, &run.ProjectPageID,
		&run.Created, &run.Updated, &run.Skipped, &run.Failed,
		&startedAt, &finishedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sync run: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}
	return r.populateRun(&run, code, startedAt, finishedAt)
}

func (r *SQLiteSyncRunRepo) scanRunRows(rows *sql.Rows) (*domain.SyncRun, error) {
	var run domain.SyncRun
	var code, startedAt string
	var finishedAt sql.NullString

	err := rows.Scan(
		&run.ID, &run.File, &code, &run.ProjectName, &run.ProjectPageID,
		&run.Created, &run.Updated, &run.Skipped, &run.Failed,
		&startedAt, &finishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning sync run: %w", err)
	}
	return r.populateRun(&run, code, startedAt, finishedAt)
}

func (r *SQLiteSyncRunRepo) populateRun(run *domain.SyncRun, code, startedAt string, finishedAt sql.NullString) (*domain.SyncRun, error) {
	run.ProjectCode = domain.EDT(code)

	started, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	run.StartedAt = started

	if t := parseNullableTime(finishedAt, time.RFC3339); t != nil {
		run.FinishedAt = *t
	}
	return run, nil
}
