package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jpwops/sopcheck/internal/config"
	"github.com/jpwops/sopcheck/internal/sop"
)

// memStore is an in-memory RunStore for tests.
type memStore struct {
	mu        sync.Mutex
	runs      []Run
	issues    map[string]sop.Report
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{issues: make(map[string]sop.Report)}
}

func (m *memStore) InsertRun(ctx context.Context, run Run, issues sop.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.runs = append(m.runs, run)
	m.issues[run.ID] = issues
	return nil
}

func (m *memStore) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if offset >= len(m.runs) {
		return []Run{}, nil
	}
	end := offset + limit
	if end > len(m.runs) {
		end = len(m.runs)
	}
	return append([]Run{}, m.runs[offset:end]...), nil
}

func (m *memStore) GetRun(ctx context.Context, id string) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return Run{}, errors.New("run not found: " + id)
}

func (m *memStore) GetRunIssues(ctx context.Context, id string) (sop.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	issues, ok := m.issues[id]
	if !ok {
		return nil, errors.New("run not found: " + id)
	}
	return issues, nil
}

func (m *memStore) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.runs[:0]
	var pruned int64
	for _, r := range m.runs {
		if r.CreatedAt.Before(cutoff) {
			delete(m.issues, r.ID)
			pruned++
			continue
		}
		kept = append(kept, r)
	}
	m.runs = kept
	return pruned, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Upload: config.UploadConfig{
			MaxFileSize:   50 << 20,
			MaxConcurrent: 2,
			MaxWaitTime:   time.Second,
			Timeout:       30 * time.Second,
		},
	}
}

// buildWorkbook creates an xlsx file with the given sheets.
func buildWorkbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%q): %v", name, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("SetSheetRow: %v", err)
			}
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("DeleteSheet: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf
}

func cleanSheets() map[string][][]interface{} {
	return map[string][][]interface{}{
		"Merchants": {
			{"MerchantID", "MobileNumber", "UserID"},
			{"M1", "7000000001", "U100"},
		},
		"Partners": {
			{"PartnerID", "MobileNumber", "UserID"},
			{"P1", "7000000002", "U200"},
		},
		"PartnerMerchantMapping": {
			{"PartnerID", "MerchantID"},
			{"P1", "M1"},
		},
		"Lead": {
			{"LeadID", "MobileNumber", "UserID"},
			{"L1", "7000000003", "U300"},
		},
		"Leadpartnermapping": {
			{"LeadID", "PartnerID"},
			{"L1", "P1"},
		},
	}
}

func TestValidateUpload_CleanWorkbook(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	buf := buildWorkbook(t, cleanSheets())
	result, err := svc.ValidateUpload(context.Background(), "sop.xlsx", buf)
	if err != nil {
		t.Fatalf("ValidateUpload: %v", err)
	}

	if result.IssueCount != 0 || len(result.Issues) != 0 {
		t.Errorf("issues = %+v, want none", result.Issues)
	}
	if result.SheetCount != 5 {
		t.Errorf("SheetCount = %d, want 5", result.SheetCount)
	}
	if result.RowCount != 5 {
		t.Errorf("RowCount = %d, want 5", result.RowCount)
	}
	if result.RunID == "" {
		t.Error("RunID should be set")
	}

	// The run is recorded in the store.
	runs, err := svc.Runs(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != result.RunID {
		t.Errorf("stored runs = %+v, want one run with id %s", runs, result.RunID)
	}
}

func TestValidateUpload_ReportsIssues(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	sheets := cleanSheets()
	// L2 has no mapping entry.
	sheets["Lead"] = [][]interface{}{
		{"LeadID", "MobileNumber", "UserID"},
		{"L1", "7000000003", "U300"},
		{"L2", "7000000004", "U301"},
	}

	result, err := svc.ValidateUpload(context.Background(), "sop.xlsx", buildWorkbook(t, sheets))
	if err != nil {
		t.Fatalf("ValidateUpload: %v", err)
	}

	if result.IssueCount != 1 {
		t.Fatalf("IssueCount = %d, want 1: %+v", result.IssueCount, result.Issues)
	}
	issue := result.Issues[0]
	if issue.ErrorType != sop.ErrTypeUnmappedLead || issue.RowIndex != 3 {
		t.Errorf("issue = %+v, want Unmapped Lead at row 3", issue)
	}

	// Issues are persisted alongside the run.
	stored, err := svc.RunIssues(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("RunIssues: %v", err)
	}
	if len(stored) != 1 || stored[0] != issue {
		t.Errorf("stored issues = %+v, want %+v", stored, issue)
	}
}

func TestValidateUpload_MissingSheets(t *testing.T) {
	svc := NewService(newMemStore(), testConfig())

	sheets := cleanSheets()
	delete(sheets, "Partners")
	delete(sheets, "Lead")

	_, err := svc.ValidateUpload(context.Background(), "sop.xlsx", buildWorkbook(t, sheets))
	if err == nil {
		t.Fatal("expected error for missing sheets")
	}
	if !strings.Contains(err.Error(), "missing required sheets") {
		t.Errorf("error = %v, want missing required sheets", err)
	}
	if !strings.Contains(err.Error(), "Partners") || !strings.Contains(err.Error(), "Lead") {
		t.Errorf("error = %v, want both missing sheet names listed", err)
	}
}

func TestValidateUpload_BadFile(t *testing.T) {
	svc := NewService(newMemStore(), testConfig())

	_, err := svc.ValidateUpload(context.Background(), "junk.xlsx", bytes.NewReader([]byte("not a workbook")))
	if err == nil {
		t.Fatal("expected error for unreadable file")
	}
	if !strings.Contains(err.Error(), "open workbook") {
		t.Errorf("error = %v, want open workbook prefix", err)
	}
}

func TestValidateUpload_StoreFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	store.insertErr = errors.New("connection refused")
	svc := NewService(store, testConfig())

	result, err := svc.ValidateUpload(context.Background(), "sop.xlsx", buildWorkbook(t, cleanSheets()))
	if err != nil {
		t.Fatalf("ValidateUpload should succeed despite store failure: %v", err)
	}
	if result.IssueCount != 0 {
		t.Errorf("IssueCount = %d, want 0", result.IssueCount)
	}
}

func TestRetentionScheduler_PrunesOldRuns(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testConfig())

	old := Run{ID: "old", FileName: "a.xlsx", CreatedAt: time.Now().AddDate(0, 0, -120)}
	recent := Run{ID: "recent", FileName: "b.xlsx", CreatedAt: time.Now()}
	store.InsertRun(context.Background(), old, nil)
	store.InsertRun(context.Background(), recent, nil)

	svc.pruneOldRuns(context.Background(), 90)

	runs, err := store.ListRuns(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "recent" {
		t.Errorf("runs after prune = %+v, want only the recent run", runs)
	}
}
