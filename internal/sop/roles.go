package sop

import "github.com/jpwops/sopcheck/internal/workbook"

// Sheet names the workbook must carry.
const (
	SheetMerchants              = "Merchants"
	SheetPartners               = "Partners"
	SheetPartnerMerchantMapping = "PartnerMerchantMapping"
	SheetLead                   = "Lead"
	SheetLeadPartnerMapping     = "Leadpartnermapping"
)

// ExpectedSheets lists every sheet required before validation may run.
var ExpectedSheets = []string{
	SheetMerchants,
	SheetPartners,
	SheetPartnerMerchantMapping,
	SheetLead,
	SheetLeadPartnerMapping,
}

// Logical column roles. A role names what a column is for, independent of
// how the sheet author spelled the header.
const (
	RoleID         = "id"
	RoleUserID     = "user_id"
	RoleMobile     = "mobile"
	RolePartnerID  = "partner_id"
	RoleMerchantID = "merchant_id"
	RoleLeadID     = "lead_id"
)

// suggestedColumns maps each sheet's roles to a ranked list of acceptable
// header spellings. Resolution takes the first candidate present on the
// sheet, so preferred spellings come first.
var suggestedColumns = map[string]map[string][]string{
	SheetMerchants: {
		RoleID:     {"MerchantID", "merchant_id", "id"},
		RoleUserID: {"UserID", "user_id"},
		RoleMobile: {"MobileNumber", "mobile"},
	},
	SheetPartners: {
		RoleID:     {"PartnerID", "partner_id", "id"},
		RoleUserID: {"UserID", "user_id"},
		RoleMobile: {"MobileNumber", "mobile"},
	},
	SheetLead: {
		RoleID:     {"LeadID", "lead_id", "id"},
		RoleUserID: {"UserID", "user_id"},
		RoleMobile: {"MobileNumber", "mobile"},
	},
	SheetPartnerMerchantMapping: {
		RolePartnerID:  {"PartnerID", "partner_id"},
		RoleMerchantID: {"MerchantID", "merchant_id"},
	},
	SheetLeadPartnerMapping: {
		RoleLeadID:    {"LeadID", "lead_id"},
		RolePartnerID: {"PartnerID", "partner_id"},
	},
}

// MissingSheets returns the expected sheets absent from the workbook, in the
// expected order. Callers must reject a workbook with missing sheets before
// invoking Validate.
func MissingSheets(wb workbook.Workbook) []string {
	var missing []string
	for _, name := range ExpectedSheets {
		if _, ok := wb[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
