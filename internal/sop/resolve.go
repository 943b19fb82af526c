package sop

import "github.com/jpwops/sopcheck/internal/workbook"

// Resolve picks the first candidate name that exists verbatim among the
// sheet's columns. Matching is case-sensitive; header whitespace is already
// trimmed at ingest. Returns false when no candidate is present, or when the
// sheet is nil or has no columns.
func Resolve(sheet *workbook.Sheet, candidates []string) (string, bool) {
	if sheet == nil || len(sheet.Columns) == 0 {
		return "", false
	}
	for _, c := range candidates {
		if sheet.HasColumn(c) {
			return c, true
		}
	}
	return "", false
}

// roleColumn resolves a logical role to a concrete column name on the named
// sheet using the suggested-columns table.
func roleColumn(wb workbook.Workbook, sheetName, role string) (string, bool) {
	return Resolve(wb[sheetName], suggestedColumns[sheetName][role])
}

// roleColumns resolves several roles at once. Unresolved roles yield an
// empty string so downstream checks can skip them per column.
func roleColumns(wb workbook.Workbook, sheetName string, roles ...string) []string {
	cols := make([]string, len(roles))
	for i, role := range roles {
		cols[i], _ = roleColumn(wb, sheetName, role)
	}
	return cols
}
