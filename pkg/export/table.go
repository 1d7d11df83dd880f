package export

import "time"

// Column describes one column of a tabular export. Weight is the share of
// the page width the column receives in PDF output; zero means an equal
// share.
type Column struct {
	Title  string
	Weight float64
}

// Table is the renderer-independent content of an export: an ordered set of
// columns and rows plus document metadata.
type Table struct {
	Title       string
	GeneratedAt time.Time
	Columns     []Column
	Rows        [][]string
}

func (t Table) cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
