package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVWriter renders a Table as CSV. The title and timestamp are omitted;
// CSV consumers want a clean header row.
type CSVWriter struct{}

// NewCSVWriter builds a CSV renderer.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Render encodes the table, one record per row in column order.
func (w *CSVWriter) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("export table needs at least one column")
	}

	buf := &bytes.Buffer{}
	cw := csv.NewWriter(buf)

	header := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col.Title
	}
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i := range table.Columns {
			record[i] = table.cell(row, i)
		}
		if err := cw.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
