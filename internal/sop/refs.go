package sop

import (
	"fmt"

	"github.com/jpwops/sopcheck/internal/workbook"
)

// DanglingRefIssues flags child rows whose key value does not appear in the
// parent sheet's key column. Rows with a blank child key are not applicable
// and never flagged.
//
// The check is best-effort: when either column is unresolved (empty name) or
// either sheet is absent or has no rows, it is skipped entirely so an
// incomplete schema degrades to fewer checks rather than an error.
func DanglingRefIssues(
	child *workbook.Sheet, childName, childCol string,
	parent *workbook.Sheet, parentName, parentCol string,
	errorType, entity string,
) []Issue {
	if childCol == "" || parentCol == "" || child.Empty() || parent.Empty() {
		return nil
	}

	known := parent.ColumnValues(parentCol)

	var issues []Issue
	for i, row := range child.Rows {
		v := row[childCol]
		if v == "" || known[v] {
			continue
		}
		issues = append(issues, Issue{
			Sheet:     childName,
			RowIndex:  i + 2,
			ErrorType: errorType,
			Entity:    entity,
			Message:   fmt.Sprintf("%s '%s' not found in %s.%s", childCol, v, parentName, parentCol),
		})
	}
	return issues
}
