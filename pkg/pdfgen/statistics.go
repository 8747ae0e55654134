package pdfgen

import (
	"fmt"
	"io"
	"time"
)

// CategoryStat is one slice of the per-status distribution.
type CategoryStat struct {
	Name       string
	Count      int64
	Percentage float64
}

// MonthlyStat is the number of records created in one calendar month.
type MonthlyStat struct {
	Month string
	Count int64
}

// Statistics is the input to the aggregate statistics report.
type Statistics struct {
	GeneratedAt time.Time
	Total       int64
	Categories  []CategoryStat
	Monthly     []MonthlyStat
}

// WriteStatistics renders the total count, the per-status distribution and
// the trailing six-month registration table. An empty data set renders a
// valid document with no tables.
func WriteStatistics(w io.Writer, stats Statistics) error {
	pdf := newDocument()
	writeTitle(pdf, "Student Records Statistics Report")
	writeSubtitle(pdf, stats.GeneratedAt, "")

	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 9, fmt.Sprintf("Total Students: %d", stats.Total), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if len(stats.Categories) > 0 {
		writeSectionHeading(pdf, "Distribution by Status:")
		widths := []float64{60, 50, 50}
		header := []string{"Status", "Number of Students", "Percentage"}
		rows := make([][]string, 0, len(stats.Categories))
		for _, category := range stats.Categories {
			rows = append(rows, []string{
				category.Name,
				fmt.Sprintf("%d", category.Count),
				fmt.Sprintf("%.1f%%", category.Percentage),
			})
		}
		writeTable(pdf, widths, header, rows, headerBlue, rowBeige, "C")
		pdf.Ln(10)
	}

	if len(stats.Monthly) > 0 {
		writeSectionHeading(pdf, "Monthly Registration (Last 6 Months):")
		widths := []float64{60, 60}
		header := []string{"Month", "New Registrations"}
		rows := make([][]string, 0, len(stats.Monthly))
		for _, month := range stats.Monthly {
			rows = append(rows, []string{month.Month, fmt.Sprintf("%d", month.Count)})
		}
		writeTable(pdf, widths, header, rows, headerPurple, rowLavender, "C")
	}

	writeFooter(pdf)

	return output(pdf, w)
}
