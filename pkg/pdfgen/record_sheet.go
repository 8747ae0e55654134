package pdfgen

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// Field is one label/value pair of a single-record sheet. The caller decides
// which fields appear; absent optional values should already read "N/A".
type Field struct {
	Label string
	Value string
}

// Sheet is the input to the single-record report.
type Sheet struct {
	GeneratedAt time.Time
	Title       string
	Fields      []Field
}

// WriteRecordSheet renders every field of one student record as a two-column
// table.
func WriteRecordSheet(w io.Writer, sheet Sheet) error {
	pdf := newDocument()
	renderSheet(pdf, sheet)
	writeFooter(pdf)

	return output(pdf, w)
}

func renderSheet(pdf *fpdf.Fpdf, sheet Sheet) {
	writeTitle(pdf, "Student Record: "+sheet.Title)
	writeSubtitle(pdf, sheet.GeneratedAt, "")

	widths := []float64{60, 130}
	header := []string{"Field", "Value"}
	rows := make([][]string, 0, len(sheet.Fields))
	for _, field := range sheet.Fields {
		value := field.Value
		if value == "" {
			value = "N/A"
		}
		rows = append(rows, []string{field.Label, value})
	}
	writeTable(pdf, widths, header, rows, headerBlue, rowBeige, "L")
}
