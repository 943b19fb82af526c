package core

import (
	"context"
	"time"

	"github.com/jpwops/sopcheck/internal/sop"
)

// Run is one recorded validation of an uploaded workbook.
type Run struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	SheetCount int       `json:"sheet_count"`
	RowCount   int       `json:"row_count"`
	IssueCount int       `json:"issue_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// RunStore persists validation runs and their issues.
type RunStore interface {
	// InsertRun stores a run together with its issues in one transaction.
	InsertRun(ctx context.Context, run Run, issues sop.Report) error

	// ListRuns returns runs ordered newest first.
	ListRuns(ctx context.Context, limit, offset int) ([]Run, error)

	// GetRun returns a single run by ID.
	GetRun(ctx context.Context, id string) (Run, error)

	// GetRunIssues returns the issues recorded for a run, in report order.
	GetRunIssues(ctx context.Context, id string) (sop.Report, error)

	// PruneRuns deletes runs created before cutoff and returns how many
	// were removed.
	PruneRuns(ctx context.Context, cutoff time.Time) (int64, error)
}
