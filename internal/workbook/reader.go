package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Read parses an xlsx workbook from r into the in-memory model.
// Every sheet in the file is loaded; the first row of each sheet is treated
// as the header.
func Read(r io.Reader) (Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return fromFile(f)
}

// ReadFile parses an xlsx workbook from disk.
func ReadFile(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()
	return fromFile(f)
}

func fromFile(f *excelize.File) (Workbook, error) {
	wb := make(Workbook)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb[name] = newSheet(rows)
	}
	return wb, nil
}

// newSheet builds a Sheet from raw cell rows. Header names are
// whitespace-trimmed; blank headers and "Unnamed:" placeholders (produced by
// spreadsheet tools for untitled columns) are dropped along with their cells.
// Data rows keep their original positions so reported row numbers line up
// with the source file.
func newSheet(raw [][]string) *Sheet {
	if len(raw) == 0 {
		return &Sheet{}
	}

	type column struct {
		name string
		idx  int
	}
	var cols []column
	for i, h := range raw[0] {
		name := strings.TrimSpace(h)
		if name == "" || strings.HasPrefix(name, "Unnamed:") {
			continue
		}
		cols = append(cols, column{name: name, idx: i})
	}

	sheet := &Sheet{Columns: make([]string, len(cols))}
	for i, c := range cols {
		sheet.Columns[i] = c.name
	}

	for _, cells := range raw[1:] {
		row := make(Row, len(cols))
		for _, c := range cols {
			if c.idx < len(cells) {
				row[c.name] = strings.TrimSpace(cells[c.idx])
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}
