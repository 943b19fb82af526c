// Package workbook provides the in-memory model for an uploaded Excel
// workbook and the excelize-based reader that produces it.
//
// A Workbook is a read-only snapshot: the validation engine never mutates
// sheets or rows after ingestion.
package workbook

// Row maps a column name to the cell value in that row. A missing key and an
// empty string both mean the cell is blank; the rule engine treats the two
// identically.
type Row map[string]string

// Sheet is one worksheet: an ordered list of column names and an ordered list
// of data rows. Row order matches the source file, so a row's 0-based
// position plus 2 gives its spreadsheet row number (the header occupies row 1).
type Sheet struct {
	Columns []string
	Rows    []Row
}

// Empty reports whether the sheet is nil or has no data rows.
func (s *Sheet) Empty() bool {
	return s == nil || len(s.Rows) == 0
}

// HasColumn reports whether the sheet carries a column with the exact name.
func (s *Sheet) HasColumn(name string) bool {
	if s == nil {
		return false
	}
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnValues returns the set of non-blank values in the named column.
func (s *Sheet) ColumnValues(name string) map[string]bool {
	values := make(map[string]bool)
	if s == nil {
		return values
	}
	for _, row := range s.Rows {
		if v := row[name]; v != "" {
			values[v] = true
		}
	}
	return values
}

// Workbook maps sheet names to sheets.
type Workbook map[string]*Sheet
