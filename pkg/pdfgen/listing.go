package pdfgen

import (
	"fmt"
	"io"
	"time"
)

// ListingRow is one line of the full-listing report.
type ListingRow struct {
	ID       uint
	IDNumber string
	FullName string
	Status   string
	Created  time.Time
	Updated  time.Time
}

// StatusTally is one entry of the listing trailer.
type StatusTally struct {
	Status string
	Count  int64
}

// Listing is the input to the full-listing report.
type Listing struct {
	GeneratedAt time.Time
	Rows        []ListingRow
	Tally       []StatusTally
}

// WriteListing renders one row per student record with a per-status summary
// trailer.
func WriteListing(w io.Writer, listing Listing) error {
	pdf := newDocument()
	writeTitle(pdf, "Student Records Report")
	writeSubtitle(pdf, listing.GeneratedAt, fmt.Sprintf("Total Records: %d", len(listing.Rows)))

	widths := []float64{14, 28, 68, 26, 27, 27}
	header := []string{"ID", "ID Number", "Full Name", "Status", "Created", "Updated"}
	rows := make([][]string, 0, len(listing.Rows))
	for _, row := range listing.Rows {
		rows = append(rows, []string{
			fmt.Sprintf("%d", row.ID),
			row.IDNumber,
			row.FullName,
			row.Status,
			formatDate(row.Created),
			formatDate(row.Updated),
		})
	}
	writeTable(pdf, widths, header, rows, headerBlue, rowBeige, "L")

	pdf.Ln(8)
	writeSectionHeading(pdf, "Summary by Status")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	if len(listing.Tally) == 0 {
		pdf.CellFormat(0, 6, "No student records.", "", 1, "L", false, 0, "")
	}
	for _, tally := range listing.Tally {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d student(s)", tally.Status, tally.Count), "", 1, "L", false, 0, "")
	}

	writeFooter(pdf)

	return output(pdf, w)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2006-01-02")
}
