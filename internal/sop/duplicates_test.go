package sop

import "testing"

func TestDuplicateIssues_FlagsEveryGroupMember(t *testing.T) {
	// Scenario: two Lead rows share MobileNumber 9999999999.
	sheet := testSheet(
		[]string{"LeadID", "MobileNumber"},
		[]string{"L1", "9999999999"},
		[]string{"L2", "8888888888"},
		[]string{"L3", "9999999999"},
	)

	issues := DuplicateIssues(sheet, SheetLead, "Lead", []string{"MobileNumber"})
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2: %+v", len(issues), issues)
	}

	wantRows := []int{2, 4}
	for i, issue := range issues {
		if issue.ErrorType != "Duplicate MobileNumber" {
			t.Errorf("issue %d error_type = %q, want %q", i, issue.ErrorType, "Duplicate MobileNumber")
		}
		if issue.RowIndex != wantRows[i] {
			t.Errorf("issue %d row_index = %d, want %d", i, issue.RowIndex, wantRows[i])
		}
		if issue.Sheet != SheetLead || issue.Entity != "Lead" {
			t.Errorf("issue %d sheet/entity = %q/%q", i, issue.Sheet, issue.Entity)
		}
		if issue.Message != "Value '9999999999' in column 'MobileNumber' appears more than once" {
			t.Errorf("issue %d message = %q", i, issue.Message)
		}
	}
}

func TestDuplicateIssues_GroupOfThree(t *testing.T) {
	sheet := testSheet(
		[]string{"UserID"},
		[]string{"U1"},
		[]string{"U1"},
		[]string{"U1"},
	)

	issues := DuplicateIssues(sheet, SheetPartners, "Partner", []string{"UserID"})
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want one per group member (3)", len(issues))
	}
	for i, issue := range issues {
		if issue.RowIndex != i+2 {
			t.Errorf("issue %d row_index = %d, want %d", i, issue.RowIndex, i+2)
		}
	}
}

func TestDuplicateIssues_BlankValuesNeverMatch(t *testing.T) {
	sheet := testSheet(
		[]string{"MobileNumber"},
		[]string{""},
		[]string{""},
		[]string{"7777777777"},
	)

	issues := DuplicateIssues(sheet, SheetLead, "Lead", []string{"MobileNumber"})
	if len(issues) != 0 {
		t.Errorf("blank cells flagged as duplicates: %+v", issues)
	}
}

func TestDuplicateIssues_ColumnsAreIndependent(t *testing.T) {
	sheet := testSheet(
		[]string{"MobileNumber", "UserID"},
		[]string{"9999999999", "U1"},
		[]string{"9999999999", "U1"},
	)

	issues := DuplicateIssues(sheet, SheetLead, "Lead", []string{"MobileNumber", "UserID"})
	if len(issues) != 4 {
		t.Fatalf("got %d issues, want 4 (two per monitored column)", len(issues))
	}
	// All mobile issues come before all user-id issues.
	for i, issue := range issues {
		want := "Duplicate MobileNumber"
		if i >= 2 {
			want = "Duplicate UserID"
		}
		if issue.ErrorType != want {
			t.Errorf("issue %d error_type = %q, want %q", i, issue.ErrorType, want)
		}
	}
}

func TestDuplicateIssues_SkipsUnresolvedColumns(t *testing.T) {
	sheet := testSheet(
		[]string{"MobileNumber"},
		[]string{"9999999999"},
		[]string{"9999999999"},
	)

	// Empty name stands for an unresolved role; a name not on the sheet is
	// skipped the same way.
	issues := DuplicateIssues(sheet, SheetPartners, "Partner", []string{"", "UserID", "MobileNumber"})
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	for _, issue := range issues {
		if issue.ErrorType != "Duplicate MobileNumber" {
			t.Errorf("unexpected error_type %q", issue.ErrorType)
		}
	}
}

func TestDuplicateIssues_EmptySheet(t *testing.T) {
	if issues := DuplicateIssues(nil, SheetLead, "Lead", []string{"MobileNumber"}); len(issues) != 0 {
		t.Errorf("nil sheet produced issues: %+v", issues)
	}
	empty := testSheet([]string{"MobileNumber"})
	if issues := DuplicateIssues(empty, SheetLead, "Lead", []string{"MobileNumber"}); len(issues) != 0 {
		t.Errorf("rowless sheet produced issues: %+v", issues)
	}
}
