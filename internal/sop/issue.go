// Package sop implements the SOP rule engine for the weekly partner
// workbook. It checks a parsed workbook against a fixed set of business
// rules and produces a flat, ordered list of issues.
//
// The engine is a pure transform: it never mutates the input workbook,
// holds no state between runs, and the same input always yields the same
// report. Rules that depend on a column the sheet does not carry are
// skipped silently rather than reported as errors, so partially-conformant
// files still get whatever checks their schema supports.
package sop

// Issue is one reported rule violation, tied to a specific sheet and row.
// RowIndex is the spreadsheet row number: the row's 0-based data position
// plus 2, since the header occupies row 1.
type Issue struct {
	Sheet     string `json:"sheet"`
	RowIndex  int    `json:"row_index"`
	ErrorType string `json:"error_type"`
	Entity    string `json:"entity"`
	Message   string `json:"message"`
}

// Report is the ordered list of issues from one validation run. Order is
// rule execution order, then row order within each rule.
type Report []Issue
