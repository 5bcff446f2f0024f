package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 7.0
	pdfBlockGap   = 3.0
)

// writePDF lays out one block of labelled lines per record. Page breaks are
// left to fpdf.
func writePDF(w io.Writer, rows [][]string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, Title, "", 1, "L", false, 0, "")
	pdf.Ln(pdfBlockGap)

	pdf.SetFont("Helvetica", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, rec := range rows {
		for i, label := range Columns {
			pdf.CellFormat(0, pdfLineHeight, tr(label+": "+rec[i]), "", 1, "L", false, 0, "")
		}
		pdf.Ln(pdfBlockGap)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
