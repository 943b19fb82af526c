// Package core implements the workbook validation service: running the
// business-rule checks on uploaded workbooks, recording run history, and
// bounding concurrent work.
package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpwops/sopcheck/internal/config"
	"github.com/jpwops/sopcheck/internal/logging"
	"github.com/jpwops/sopcheck/internal/sop"
	"github.com/jpwops/sopcheck/internal/workbook"
)

// Service coordinates workbook validation and run history.
type Service struct {
	store   RunStore
	limiter *RunLimiter
	timeout time.Duration
}

// NewService creates a Service using the given history store and config.
func NewService(store RunStore, cfg *config.Config) *Service {
	return &Service{
		store:   store,
		limiter: NewRunLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		timeout: cfg.Upload.Timeout,
	}
}

// RunResult is the outcome of validating one uploaded workbook.
type RunResult struct {
	RunID      string     `json:"run_id"`
	FileName   string     `json:"file_name"`
	SheetCount int        `json:"sheet_count"`
	RowCount   int        `json:"row_count"`
	IssueCount int        `json:"issue_count"`
	Issues     sop.Report `json:"issues"`
}

// ValidateUpload reads an uploaded workbook, runs all business-rule checks,
// and records the run. A history write failure does not fail the validation;
// the report is still returned.
func (s *Service) ValidateUpload(ctx context.Context, fileName string, r io.Reader) (*RunResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := logging.FromContext(ctx).With("file_name", fileName)
	start := time.Now()

	wb, err := workbook.Read(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	if missing := sop.MissingSheets(wb); len(missing) > 0 {
		return nil, fmt.Errorf("missing required sheets: %s", strings.Join(missing, ", "))
	}

	issues := sop.Validate(wb)

	rowCount := 0
	for _, sheet := range wb {
		rowCount += len(sheet.Rows)
	}

	result := &RunResult{
		RunID:      uuid.NewString(),
		FileName:   fileName,
		SheetCount: len(wb),
		RowCount:   rowCount,
		IssueCount: len(issues),
		Issues:     issues,
	}

	run := Run{
		ID:         result.RunID,
		FileName:   fileName,
		SheetCount: result.SheetCount,
		RowCount:   result.RowCount,
		IssueCount: result.IssueCount,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.store.InsertRun(ctx, run, issues); err != nil {
		logger.Error("failed to record validation run", "run_id", run.ID, "error", err)
	}

	logger.Info("workbook validated",
		"run_id", result.RunID,
		"rows", result.RowCount,
		"issues", result.IssueCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// Runs lists recorded validation runs, newest first.
func (s *Service) Runs(ctx context.Context, limit, offset int) ([]Run, error) {
	return s.store.ListRuns(ctx, limit, offset)
}

// Run returns one recorded run by ID.
func (s *Service) Run(ctx context.Context, id string) (Run, error) {
	return s.store.GetRun(ctx, id)
}

// RunIssues returns the issues recorded for a run.
func (s *Service) RunIssues(ctx context.Context, id string) (sop.Report, error) {
	return s.store.GetRunIssues(ctx, id)
}

// WaitForValidations blocks until in-flight validations drain or the context
// is cancelled. Used during graceful shutdown.
func (s *Service) WaitForValidations(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// LimiterStatus reports the current concurrency limiter state.
func (s *Service) LimiterStatus() RunLimiterStatus {
	return s.limiter.Status()
}
