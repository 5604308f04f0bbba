// Package loader reads tabular measurement files into effmap Tables. The
// core package never touches files; everything enters through here.
package loader

import (
	"fmt"

	"github.com/dynolab/effmap"
	"github.com/xuri/excelize/v2"
)

// Sheet pairs a workbook sheet name with its parsed table.
type Sheet struct {
	Name  string
	Table *effmap.Table
}

// OpenWorkbook reads every sheet of an .xlsx workbook in workbook order. The
// first row of a sheet is its header; data rows are padded to header width.
// Sheets without a header row come back as empty tables rather than errors.
func OpenWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Table: tableFromRows(name, rows)})
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	return sheets, nil
}

func tableFromRows(name string, rows [][]string) *effmap.Table {
	if len(rows) == 0 {
		return &effmap.Table{Name: name}
	}
	header := rows[0]
	cells := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		padded := make([]string, len(header))
		copy(padded, row)
		cells = append(cells, padded)
	}
	return &effmap.Table{Name: name, Columns: header, Cells: cells}
}
