package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jpwops/sopcheck/internal/sop"
)

// schemaSQL creates the run-history tables. Applied at startup so a fresh
// database works without a separate migration step.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS validation_runs (
    id          UUID PRIMARY KEY,
    file_name   TEXT NOT NULL,
    sheet_count INTEGER NOT NULL,
    row_count   INTEGER NOT NULL,
    issue_count INTEGER NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS validation_issues (
    run_id     UUID NOT NULL REFERENCES validation_runs(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    sheet      TEXT NOT NULL,
    row_index  INTEGER NOT NULL,
    error_type TEXT NOT NULL,
    entity     TEXT NOT NULL,
    message    TEXT NOT NULL,
    PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_validation_runs_created_at
    ON validation_runs (created_at);
`

// PGRunStore is a RunStore backed by PostgreSQL.
type PGRunStore struct {
	pool *pgxpool.Pool
}

// NewPGRunStore creates a store using the given connection pool.
func NewPGRunStore(pool *pgxpool.Pool) *PGRunStore {
	return &PGRunStore{pool: pool}
}

// EnsureSchema creates the run-history tables if they do not exist.
func (s *PGRunStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// InsertRun stores the run and its issues in a single transaction. Issues are
// written via a batch to keep large reports to one round trip.
func (s *PGRunStore) InsertRun(ctx context.Context, run Run, issues sop.Report) error {
	runID, err := toPgUUID(run.ID)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO validation_runs (id, file_name, sheet_count, row_count, issue_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, run.FileName, run.SheetCount, run.RowCount, run.IssueCount, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(issues) > 0 {
		batch := &pgx.Batch{}
		for i, issue := range issues {
			batch.Queue(`
				INSERT INTO validation_issues (run_id, position, sheet, row_index, error_type, entity, message)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				runID, i, issue.Sheet, issue.RowIndex, issue.ErrorType, issue.Entity, issue.Message,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert issues: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns runs ordered newest first.
func (s *PGRunStore) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, file_name, sheet_count, row_count, issue_count, created_at
		FROM validation_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var (
			id      pgtype.UUID
			run     Run
			created pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &run.FileName, &run.SheetCount, &run.RowCount, &run.IssueCount, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.ID = uuid.UUID(id.Bytes).String()
		run.CreatedAt = created.Time
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a single run by ID.
func (s *PGRunStore) GetRun(ctx context.Context, id string) (Run, error) {
	runID, err := toPgUUID(id)
	if err != nil {
		return Run{}, fmt.Errorf("run not found: %w", err)
	}

	var (
		run     Run
		created pgtype.Timestamptz
	)
	err = s.pool.QueryRow(ctx, `
		SELECT file_name, sheet_count, row_count, issue_count, created_at
		FROM validation_runs
		WHERE id = $1`,
		runID,
	).Scan(&run.FileName, &run.SheetCount, &run.RowCount, &run.IssueCount, &created)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}

	run.ID = id
	run.CreatedAt = created.Time
	return run, nil
}

// GetRunIssues returns a run's issues in their original report order.
func (s *PGRunStore) GetRunIssues(ctx context.Context, id string) (sop.Report, error) {
	runID, err := toPgUUID(id)
	if err != nil {
		return nil, fmt.Errorf("run not found: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT sheet, row_index, error_type, entity, message
		FROM validation_issues
		WHERE run_id = $1
		ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get run issues: %w", err)
	}
	defer rows.Close()

	issues := sop.Report{}
	for rows.Next() {
		var issue sop.Issue
		if err := rows.Scan(&issue.Sheet, &issue.RowIndex, &issue.ErrorType, &issue.Entity, &issue.Message); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run issues: %w", err)
	}
	return issues, nil
}

// PruneRuns deletes runs created before cutoff. Issues cascade.
func (s *PGRunStore) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM validation_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// toPgUUID parses a string UUID into the pgtype representation.
func toPgUUID(id string) (pgtype.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, fmt.Errorf("invalid run id %q: %w", id, err)
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, nil
}
