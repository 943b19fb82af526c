package sop

import (
	"fmt"

	"github.com/jpwops/sopcheck/internal/workbook"
)

// Error types emitted by the orchestrated checks. Duplicate checks derive
// their error type from the offending column name instead.
const (
	ErrTypeUnmappedLead       = "Unmapped Lead"
	ErrTypeInvalidPartnerRef  = "Invalid reference: Partner"
	ErrTypeInvalidMerchantRef = "Invalid reference: Merchant"
)

// Validate runs the five SOP checks in fixed order and concatenates their
// issues into one report:
//
//  1. Duplicate mobile/user-id detection on Lead, Partners and Merchants.
//  2. Lead coverage: every Lead id must be referenced somewhere in the
//     Leadpartnermapping sheet's lead-id column.
//  3. Forward referential checks for the two mapping sheets against the
//     Partners and Merchants key columns.
//
// Callers must ensure all expected sheets are present (see MissingSheets)
// before calling. Results are deterministic for a given workbook.
func Validate(wb workbook.Workbook) Report {
	report := Report{}

	lead := wb[SheetLead]
	partners := wb[SheetPartners]
	merchants := wb[SheetMerchants]
	lpm := wb[SheetLeadPartnerMapping]
	pmm := wb[SheetPartnerMerchantMapping]

	report = append(report, DuplicateIssues(lead, SheetLead, "Lead",
		roleColumns(wb, SheetLead, RoleMobile, RoleUserID))...)
	report = append(report, DuplicateIssues(partners, SheetPartners, "Partner",
		roleColumns(wb, SheetPartners, RoleMobile, RoleUserID))...)
	report = append(report, DuplicateIssues(merchants, SheetMerchants, "Merchant",
		roleColumns(wb, SheetMerchants, RoleMobile, RoleUserID))...)

	report = append(report, unmappedLeadIssues(wb, lead, lpm)...)

	partnersID, _ := roleColumn(wb, SheetPartners, RoleID)
	merchantsID, _ := roleColumn(wb, SheetMerchants, RoleID)
	lpmPartnerID, _ := roleColumn(wb, SheetLeadPartnerMapping, RolePartnerID)
	pmmPartnerID, _ := roleColumn(wb, SheetPartnerMerchantMapping, RolePartnerID)
	pmmMerchantID, _ := roleColumn(wb, SheetPartnerMerchantMapping, RoleMerchantID)

	report = append(report, DanglingRefIssues(
		lpm, SheetLeadPartnerMapping, lpmPartnerID,
		partners, SheetPartners, partnersID,
		ErrTypeInvalidPartnerRef, SheetLeadPartnerMapping)...)
	report = append(report, DanglingRefIssues(
		pmm, SheetPartnerMerchantMapping, pmmPartnerID,
		partners, SheetPartners, partnersID,
		ErrTypeInvalidPartnerRef, SheetPartnerMerchantMapping)...)
	report = append(report, DanglingRefIssues(
		pmm, SheetPartnerMerchantMapping, pmmMerchantID,
		merchants, SheetMerchants, merchantsID,
		ErrTypeInvalidMerchantRef, SheetPartnerMerchantMapping)...)

	return report
}

// unmappedLeadIssues is the coverage check: each Lead row's id must be
// referenced by at least one row in the mapping sheet's lead-id column.
// The direction is the reverse of DanglingRefIssues: the parent key must
// appear in the child column, not the other way around.
//
// Skipped when either role is unresolved or the Lead sheet has no rows.
// Leads with a blank id are not applicable.
func unmappedLeadIssues(wb workbook.Workbook, lead, mapping *workbook.Sheet) []Issue {
	leadIDCol, ok := roleColumn(wb, SheetLead, RoleID)
	mappedCol, mok := roleColumn(wb, SheetLeadPartnerMapping, RoleLeadID)
	if !ok || !mok || lead.Empty() {
		return nil
	}

	referenced := mapping.ColumnValues(mappedCol)

	var issues []Issue
	for i, row := range lead.Rows {
		v := row[leadIDCol]
		if v == "" || referenced[v] {
			continue
		}
		issues = append(issues, Issue{
			Sheet:     SheetLead,
			RowIndex:  i + 2,
			ErrorType: ErrTypeUnmappedLead,
			Entity:    "Lead",
			Message:   fmt.Sprintf("LeadID '%s' has no entry in %s.%s", v, SheetLeadPartnerMapping, mappedCol),
		})
	}
	return issues
}
