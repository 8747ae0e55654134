// Package pdfgen renders student record data into paginated PDF documents.
// All builders are stateless pure functions of the data they are given and
// write to the provided writer.
package pdfgen

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const footerText = "St. Peter's College - Student Records Management System"

// Palette carried over from the application theme.
var (
	headerBlue   = rgb{67, 97, 238}   // #4361ee
	headerPurple = rgb{114, 9, 183}   // #7209b7
	rowBeige     = rgb{245, 245, 220} // beige
	rowLavender  = rgb{230, 230, 250} // lavender
	textGray     = rgb{102, 102, 102} // #666666
	footerGray   = rgb{153, 153, 153} // #999999
)

type rgb struct{ r, g, b int }

func newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return pdf
}

func writeTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(headerBlue.r, headerBlue.g, headerBlue.b)
	pdf.MultiCell(0, 10, title, "", "L", false)
	pdf.Ln(2)
}

func writeSubtitle(pdf *fpdf.Fpdf, generatedAt time.Time, extra string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(textGray.r, textGray.g, textGray.b)
	line := "Generated on: " + generatedAt.Format("2006-01-02 15:04:05")
	if extra != "" {
		line += "\n" + extra
	}
	pdf.MultiCell(0, 6, line, "", "L", false)
	pdf.Ln(6)
}

func writeSectionHeading(pdf *fpdf.Fpdf, heading string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(0, 8, heading, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeFooter(pdf *fpdf.Fpdf) {
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(footerGray.r, footerGray.g, footerGray.b)
	pdf.CellFormat(0, 6, footerText, "", 1, "C", false, 0, "")
}

// writeTable renders a header row followed by data rows, alternating the
// given fill color on data rows.
func writeTable(pdf *fpdf.Fpdf, widths []float64, header []string, rows [][]string, headerFill, rowFill rgb, align string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(headerFill.r, headerFill.g, headerFill.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(0, 0, 0)
	for i, cell := range header {
		pdf.CellFormat(widths[i], 8, cell, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(rowFill.r, rowFill.g, rowFill.b)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
}

func output(pdf *fpdf.Fpdf, w io.Writer) error {
	return pdf.Output(w)
}
