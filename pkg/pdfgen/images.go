package pdfgen

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-pdf/fpdf"
)

// Embedded display size, the document-native equivalent of the original
// fixed 4x3 inch layout.
const (
	imageWidth  = 100.0
	imageHeight = 75.0
)

var rasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// WriteRecordWithImages renders the single-record sheet followed by every
// attachment that is a readable raster image. Extensions narrow the
// candidates; the actual bytes are sniffed before embedding, so a renamed
// text file is skipped rather than corrupting the document.
func WriteRecordWithImages(w io.Writer, sheet Sheet, attachments []string) error {
	pdf := newDocument()
	renderSheet(pdf, sheet)

	pdf.Ln(8)
	writeSectionHeading(pdf, "Attached Images")

	embedded := 0
	for _, path := range attachments {
		if !rasterExtensions[strings.ToLower(filepath.Ext(path))] {
			continue
		}
		if embedImage(pdf, path) {
			embedded++
		}
	}

	if embedded == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(textGray.r, textGray.g, textGray.b)
		pdf.CellFormat(0, 6, "No valid images attached to this record.", "", 1, "L", false, 0, "")
	}

	writeFooter(pdf)

	return output(pdf, w)
}

func embedImage(pdf *fpdf.Fpdf, path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	imageType := detectImageType(data)
	if imageType == "" {
		return false
	}

	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	info := pdf.RegisterImageOptionsReader(path, opts, bytes.NewReader(data))
	if info == nil || pdf.Err() {
		// fpdf latches its error state on a bad image; clear it and move on
		// to the remaining attachments.
		pdf.ClearError()
		return false
	}

	if pdf.GetY()+imageHeight > 270 {
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, filepath.Base(path), "", 1, "L", false, 0, "")
	pdf.ImageOptions(path, pdf.GetX(), pdf.GetY(), imageWidth, imageHeight, true, opts, 0, "")
	pdf.Ln(4)

	return true
}

// detectImageType maps sniffed content to the image formats fpdf accepts.
// BMP attachments are allowed by the picker but cannot be embedded, so they
// fall through to "skipped".
func detectImageType(data []byte) string {
	switch mimetype.Detect(data).String() {
	case "image/png":
		return "PNG"
	case "image/jpeg":
		return "JPG"
	case "image/gif":
		return "GIF"
	default:
		return ""
	}
}
