package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 277.0
	pdfLabelWidth = 37.0
	pdfRowHeight  = 12.0
)

// PDFExporter renders tables into a landscape A4 grid.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType implements Renderer.
func (e *PDFExporter) ContentType() string { return ContentTypePDF }

// Extension implements Renderer.
func (e *PDFExporter) Extension() string { return "pdf" }

// Render creates a PDF with the title, a header row and one row per time block.
// Banner rows are shaded and span every day column.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if err := table.validate(); err != nil {
		return nil, err
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(table.Title)), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	days := len(table.Headers) - 1
	dayWidth := (pdfPageWidth - pdfLabelWidth) / float64(days)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(pdfLabelWidth, 8, tr(table.Headers[0]), "1", 0, "C", true, 0, "")
	for _, header := range table.Headers[1:] {
		pdf.CellFormat(dayWidth, 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range table.Rows {
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(pdfLabelWidth, pdfRowHeight, tr(row.Label), "1", 0, "C", false, 0, "")
		if row.Banner != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.SetFillColor(245, 240, 210)
			pdf.CellFormat(dayWidth*float64(days), pdfRowHeight, tr(row.Banner), "1", 0, "C", true, 0, "")
			pdf.Ln(-1)
			continue
		}
		pdf.SetFont("Arial", "", 8)
		for _, cell := range row.Cells {
			pdf.CellFormat(dayWidth, pdfRowHeight, tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
