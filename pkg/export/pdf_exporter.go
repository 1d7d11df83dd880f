package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const pdfLineHeight = 5.0

// PDFWriter renders a Table as a landscape PDF. Question and answer text is
// free-form and often long, so cells wrap and rows grow to fit the tallest
// cell instead of truncating.
type PDFWriter struct{}

// NewPDFWriter builds a PDF renderer.
func NewPDFWriter() *PDFWriter {
	return &PDFWriter{}
}

// Render produces the PDF document.
func (w *PDFWriter) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("export table needs at least one column")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(false, 12)
	pdf.AddPage()

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, table.Title, "", 1, "C", false, 0, "")
	}
	if !table.GeneratedAt.IsZero() {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, "Generated "+table.GeneratedAt.Format("2006-01-02 15:04 UTC"), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	widths := columnWidths(table.Columns, pageWidth-left-right)
	limit := pageHeight - bottom

	writeHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(235, 235, 235)
		for i, col := range table.Columns {
			pdf.CellFormat(widths[i], 8, col.Title, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	writeHeader()

	for _, row := range table.Rows {
		height := w.rowHeight(pdf, table, row, widths)
		if pdf.GetY()+height > limit {
			pdf.AddPage()
			writeHeader()
		}
		w.writeRow(pdf, table, row, widths, height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *PDFWriter) rowHeight(pdf *gofpdf.Fpdf, table Table, row []string, widths []float64) float64 {
	lines := 1
	for i := range table.Columns {
		if n := len(pdf.SplitText(table.cell(row, i), widths[i]-2)); n > lines {
			lines = n
		}
	}
	return float64(lines)*pdfLineHeight + 2
}

func (w *PDFWriter) writeRow(pdf *gofpdf.Fpdf, table Table, row []string, widths []float64, height float64) {
	x0, y0 := pdf.GetXY()
	x := x0
	for i := range table.Columns {
		pdf.Rect(x, y0, widths[i], height, "D")
		pdf.SetXY(x+1, y0+1)
		pdf.MultiCell(widths[i]-2, pdfLineHeight, table.cell(row, i), "", "L", false)
		x += widths[i]
	}
	pdf.SetXY(x0, y0+height)
}

func columnWidths(columns []Column, usable float64) []float64 {
	total := 0.0
	for _, col := range columns {
		if col.Weight > 0 {
			total += col.Weight
		} else {
			total++
		}
	}
	widths := make([]float64, len(columns))
	for i, col := range columns {
		weight := col.Weight
		if weight <= 0 {
			weight = 1
		}
		widths[i] = usable * weight / total
	}
	return widths
}
