package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 10.0
	rowHeight  = 6.0
)

// WritePDF writes r to path as a landscape A4 table with a report header and
// a "Page x/y" footer on every page.
func WritePDF(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := RenderPDF(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// RenderPDF writes the PDF document for r to w.
func RenderPDF(w io.Writer, r Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	widths := columnWidths(pageW - 2*pageMargin)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, tr(r.title()), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		meta := "Generated " + r.generated()
		if r.Subtitle != "" {
			meta += "  |  " + r.Subtitle
		}
		pdf.CellFormat(0, 5, tr(meta), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range Columns {
			pdf.CellFormat(widths[i], rowHeight+1, tr(col.Header), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 9)
	if len(r.Cases) == 0 {
		pdf.CellFormat(0, rowHeight, "No cases found.", "1", 1, "C", false, 0, "")
	}
	for _, c := range r.Cases {
		for i, v := range Row(c) {
			pdf.CellFormat(widths[i], rowHeight, fit(pdf, tr(v), widths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func columnWidths(total float64) []float64 {
	var sum float64
	for _, c := range Columns {
		sum += c.Width
	}
	widths := make([]float64, len(Columns))
	for i, c := range Columns {
		widths[i] = total * c.Width / sum
	}
	return widths
}

// fit trims s with an ellipsis so it is no wider than w.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
