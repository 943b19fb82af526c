package sop

import "testing"

func TestDanglingRefIssues_FlagsUnknownKeys(t *testing.T) {
	// Scenario: PartnerMerchantMapping references PartnerID P9 which does
	// not exist in Partners.
	child := testSheet(
		[]string{"PartnerID", "MerchantID"},
		[]string{"P1", "M1"},
		[]string{"P9", "M2"},
	)
	parent := testSheet(
		[]string{"PartnerID"},
		[]string{"P1"},
		[]string{"P2"},
	)

	issues := DanglingRefIssues(
		child, SheetPartnerMerchantMapping, "PartnerID",
		parent, SheetPartners, "PartnerID",
		ErrTypeInvalidPartnerRef, SheetPartnerMerchantMapping,
	)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %+v", len(issues), issues)
	}

	issue := issues[0]
	if issue.ErrorType != ErrTypeInvalidPartnerRef {
		t.Errorf("error_type = %q, want %q", issue.ErrorType, ErrTypeInvalidPartnerRef)
	}
	if issue.RowIndex != 3 {
		t.Errorf("row_index = %d, want 3", issue.RowIndex)
	}
	if issue.Message != "PartnerID 'P9' not found in Partners.PartnerID" {
		t.Errorf("message = %q", issue.Message)
	}
}

func TestDanglingRefIssues_BlankChildKeysNotApplicable(t *testing.T) {
	child := testSheet(
		[]string{"PartnerID"},
		[]string{""},
		[]string{"P1"},
	)
	parent := testSheet([]string{"PartnerID"}, []string{"P1"})

	issues := DanglingRefIssues(
		child, SheetPartnerMerchantMapping, "PartnerID",
		parent, SheetPartners, "PartnerID",
		ErrTypeInvalidPartnerRef, SheetPartnerMerchantMapping,
	)
	if len(issues) != 0 {
		t.Errorf("blank child key flagged: %+v", issues)
	}
}

func TestDanglingRefIssues_SkippedWhenSchemaIncomplete(t *testing.T) {
	child := testSheet([]string{"PartnerID"}, []string{"P9"})
	parent := testSheet([]string{"PartnerID"}, []string{"P1"})

	tests := []struct {
		name      string
		childCol  string
		parentCol string
	}{
		{"unresolved child column", "", "PartnerID"},
		{"unresolved parent column", "PartnerID", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := DanglingRefIssues(
				child, SheetPartnerMerchantMapping, tt.childCol,
				parent, SheetPartners, tt.parentCol,
				ErrTypeInvalidPartnerRef, SheetPartnerMerchantMapping,
			)
			if len(issues) != 0 {
				t.Errorf("expected silent skip, got %+v", issues)
			}
		})
	}
}

func TestDanglingRefIssues_SkippedWhenSheetsEmpty(t *testing.T) {
	populated := testSheet([]string{"PartnerID"}, []string{"P9"})
	empty := testSheet([]string{"PartnerID"})

	if issues := DanglingRefIssues(
		empty, SheetPartnerMerchantMapping, "PartnerID",
		populated, SheetPartners, "PartnerID",
		ErrTypeInvalidPartnerRef, SheetPartnerMerchantMapping,
	); len(issues) != 0 {
		t.Errorf("empty child sheet produced issues: %+v", issues)
	}

	if issues := DanglingRefIssues(
		populated, SheetPartnerMerchantMapping, "PartnerID",
		empty, SheetPartners, "PartnerID",
		ErrTypeInvalidPartnerRef, SheetPartnerMerchantMapping,
	); len(issues) != 0 {
		t.Errorf("empty parent sheet produced issues: %+v", issues)
	}

	if issues := DanglingRefIssues(
		populated, SheetPartnerMerchantMapping, "PartnerID",
		nil, SheetPartners, "PartnerID",
		ErrTypeInvalidPartnerRef, SheetPartnerMerchantMapping,
	); len(issues) != 0 {
		t.Errorf("nil parent sheet produced issues: %+v", issues)
	}
}
