package effmap

import "strings"

// Table is one rectangular sheet of named columns, as delivered by a loader.
// Cells are kept as raw strings; numeric coercion happens in the column
// mapper so that a bad cell degrades to zero instead of failing the load.
type Table struct {
	Name    string
	Columns []string
	Cells   [][]string
}

// NumRows returns the number of data rows in the table.
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Cells)
}

// Column returns the raw cells of the named column. Header names are matched
// after trimming surrounding whitespace, since spreadsheet headers routinely
// carry stray spaces.
func (t *Table) Column(name string) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	for j, col := range t.Columns {
		if strings.TrimSpace(col) != name {
			continue
		}
		out := make([]string, len(t.Cells))
		for i, row := range t.Cells {
			if j < len(row) {
				out[i] = row[j]
			}
		}
		return out, true
	}
	return nil, false
}

// HasColumn reports whether the named column exists in the header.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, col := range t.Columns {
		if strings.TrimSpace(col) == name {
			return true
		}
	}
	return false
}
