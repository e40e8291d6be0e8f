package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders call sheets into a printable PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a single-page call sheet document.
func (e *PDFExporter) Render(sheet CallSheet) ([]byte, error) {
	if sheet.Date.IsZero() {
		return nil, fmt.Errorf("call sheet requires a date")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	title := sheet.ProductionTitle
	if title == "" {
		title = "Production"
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, strings.ToUpper(title)+" — CALL SHEET", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	dateLine := sheet.Date.Format("Monday, 2 January 2006")
	if sheet.DayLabel != "" {
		dateLine += " (" + sheet.DayLabel + ")"
	}
	pdf.CellFormat(0, 7, dateLine, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Location: %s    Call: %s    Est. Wrap: %s", sheet.Location, sheet.CallTime, sheet.WrapTime), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(15, 8, "Scene", "1", 0, "C", false, 0, "")
	pdf.CellFormat(95, 8, "Title", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Hours", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 8, "Cast", "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, scene := range sheet.Scenes {
		sceneTitle := scene.Title
		if scene.VFX {
			sceneTitle += " [VFX]"
		}
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", scene.Number), "1", 0, "C", false, 0, "")
		pdf.CellFormat(95, 7, sceneTitle, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%.1f", scene.DurationHours), "1", 0, "C", false, 0, "")
		pdf.CellFormat(60, 7, strings.Join(scene.Characters, ", "), "1", 1, "", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, "Cast", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	cast := strings.Join(sheet.Cast, ", ")
	if cast == "" {
		cast = "(none called)"
	}
	pdf.MultiCell(0, 6, cast, "", "", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, "Crew", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 6, strings.Join(sheet.Crew, ", "), "", "", false)

	if sheet.Notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 7, "Notes", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 6, sheet.Notes, "", "", false)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
