package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin = 10.0
	rowHeight  = 7.0
)

// PDFExporter renders datasets into a tabular PDF. Wide datasets (routine grids)
// switch to landscape automatically.
type PDFExporter struct {
	// LandscapeAbove is the column count from which landscape is used.
	LandscapeAbove int
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{LandscapeAbove: 6}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	orientation := "P"
	if e.LandscapeAbove > 0 && len(data.Headers) >= e.LandscapeAbove {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin) / float64(len(data.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range data.Headers {
			pdf.CellFormat(colWidth, 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	writeRow := func(row map[string]string, bold bool) {
		if pdf.GetY()+rowHeight > pageHeight-20 {
			pdf.AddPage()
			header()
		}
		if bold {
			pdf.SetFont("Arial", "B", 8)
		}
		for _, value := range data.Record(row) {
			pdf.CellFormat(colWidth, rowHeight, truncate(pdf, value, colWidth), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
		if bold {
			pdf.SetFont("Arial", "", 8)
		}
	}
	for _, row := range data.Rows {
		writeRow(row, false)
	}
	if data.Footer != nil {
		writeRow(data.Footer, true)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens text so it fits a cell; grid cells carry several fields.
func truncate(pdf *gofpdf.Fpdf, value string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(value) <= limit {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
