package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// ErrNoFont is returned when a PDF is requested without a font that can
// render Chinese. The core PDF fonts are Latin-1 only.
var ErrNoFont = errors.New("pdf: a TrueType font with CJK glyphs is required")

const pdfFontFamily = "cjk"

// WritePDF renders the ranking as a single A4 page: a header, then one row
// per token with a proportional bar. fontPath must point to a TTF font
// that covers CJK ideographs.
func WritePDF(w io.Writer, s Summary, fontPath string) error {
	if fontPath == "" {
		return ErrNoFont
	}
	if _, err := os.Stat(fontPath); err != nil {
		return fmt.Errorf("pdf: font: %w", err)
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font(pdfFontFamily, "", fontPath)
	if pdf.Err() {
		return fmt.Errorf("pdf: load font %s: %w", fontPath, pdf.Error())
	}
	pdf.SetFont(pdfFontFamily, "", 11)
	pdf.AddPage()

	pdf.SetFontSize(16)
	pdf.CellFormat(0, 10, "词频统计", "", 1, "L", false, 0, "")
	pdf.SetFontSize(10)
	pdf.CellFormat(0, 6, s.Address, "", 1, "L", false, 0, "")
	if s.Title != "" {
		pdf.CellFormat(0, 6, s.Title, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Tokens: %d  Distinct: %d", s.Tokens, s.Distinct), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	writePDFRows(pdf, s)

	if pdf.Err() {
		return fmt.Errorf("pdf: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func writePDFRows(pdf *gofpdf.Fpdf, s Summary) {
	if len(s.Entries) == 0 {
		pdf.CellFormat(0, 6, "No Chinese tokens found.", "", 1, "L", false, 0, "")
		return
	}
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	const rankW, tokenW, countW, rowH = 10.0, 40.0, 18.0, 7.0
	barMax := pageW - left - right - rankW - tokenW - countW
	maxCount := s.Entries[0].Count
	for _, e := range s.Entries {
		if e.Count > maxCount {
			maxCount = e.Count
		}
	}

	pdf.SetFillColor(255, 102, 102)
	pdf.SetFontSize(11)
	for i, e := range s.Entries {
		pdf.CellFormat(rankW, rowH, strconv.Itoa(i+1), "", 0, "R", false, 0, "")
		pdf.CellFormat(tokenW, rowH, " "+e.Token, "", 0, "L", false, 0, "")
		pdf.CellFormat(countW, rowH, strconv.Itoa(e.Count), "", 0, "R", false, 0, "")
		x, y := pdf.GetXY()
		if width := barMax * float64(e.Count) / float64(maxCount); maxCount > 0 && width > 2 {
			pdf.Rect(x+2, y+1, width-2, rowH-2, "F")
		}
		pdf.Ln(rowH)
	}
}
