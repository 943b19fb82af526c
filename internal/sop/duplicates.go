package sop

import (
	"fmt"

	"github.com/jpwops/sopcheck/internal/workbook"
)

// DuplicateIssues flags every row that shares a non-blank value with another
// row on any of the monitored columns. All members of a duplicate group are
// flagged, not just the repeats, so the full cluster shows up in the report.
// Blank cells never count as duplicates of each other.
//
// Columns that did not resolve (empty name) or are not on the sheet are
// skipped. Monitored columns are independent: a row duplicated on two
// columns produces two issues.
func DuplicateIssues(sheet *workbook.Sheet, sheetName, entity string, columns []string) []Issue {
	if sheet.Empty() {
		return nil
	}

	var issues []Issue
	for _, col := range columns {
		if col == "" || !sheet.HasColumn(col) {
			continue
		}

		counts := make(map[string]int, len(sheet.Rows))
		for _, row := range sheet.Rows {
			if v := row[col]; v != "" {
				counts[v]++
			}
		}

		for i, row := range sheet.Rows {
			v := row[col]
			if v == "" || counts[v] < 2 {
				continue
			}
			issues = append(issues, Issue{
				Sheet:     sheetName,
				RowIndex:  i + 2,
				ErrorType: "Duplicate " + col,
				Entity:    entity,
				Message:   fmt.Sprintf("Value '%s' in column '%s' appears more than once", v, col),
			})
		}
	}
	return issues
}
