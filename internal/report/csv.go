// Package report renders a validation report as a flat CSV export, one row
// per issue. The export mirrors the issue fields so the file stands alone.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jpwops/sopcheck/internal/sop"
)

// FileName is the canonical download name for the export.
const FileName = "error_summary.csv"

// Columns is the export header, in field order.
var Columns = []string{"sheet", "row_index", "error_type", "entity", "message"}

// WriteCSV writes the report to w. The header row is always emitted, so an
// empty report still produces a valid (header-only) export.
func WriteCSV(w io.Writer, issues sop.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, issue := range issues {
		record := []string{
			issue.Sheet,
			strconv.Itoa(issue.RowIndex),
			issue.ErrorType,
			issue.Entity,
			issue.Message,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
