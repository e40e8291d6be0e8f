package export

import (
	"bytes"
	"fmt"
	"strings"
)

// TextExporter renders call sheets as plain text, the format the
// dashboard downloads as call_sheet_<date>.txt.
type TextExporter struct{}

// NewTextExporter builds a text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Render produces the plain-text call sheet.
func (e *TextExporter) Render(sheet CallSheet) ([]byte, error) {
	if sheet.Date.IsZero() {
		return nil, fmt.Errorf("call sheet requires a date")
	}

	buf := &bytes.Buffer{}
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(buf, rule)
	title := sheet.ProductionTitle
	if title == "" {
		title = "PRODUCTION"
	}
	fmt.Fprintf(buf, "%s — CALL SHEET\n", strings.ToUpper(title))
	fmt.Fprintln(buf, rule)
	fmt.Fprintf(buf, "Date:     %s", sheet.Date.Format("Monday, 2 January 2006"))
	if sheet.DayLabel != "" {
		fmt.Fprintf(buf, " (%s)", sheet.DayLabel)
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Location: %s\n", sheet.Location)
	fmt.Fprintf(buf, "Call:     %s    Est. Wrap: %s\n", sheet.CallTime, sheet.WrapTime)
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "SCENES")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	for _, scene := range sheet.Scenes {
		vfx := ""
		if scene.VFX {
			vfx = "  [VFX]"
		}
		fmt.Fprintf(buf, "  %3d  %-38s %4.1fh%s\n", scene.Number, truncate(scene.Title, 38), scene.DurationHours, vfx)
		if len(scene.Characters) > 0 {
			fmt.Fprintf(buf, "       Cast: %s\n", strings.Join(scene.Characters, ", "))
		}
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "CAST")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	if len(sheet.Cast) == 0 {
		fmt.Fprintln(buf, "  (none called)")
	}
	for _, name := range sheet.Cast {
		fmt.Fprintf(buf, "  %s\n", name)
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "CREW")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	for _, role := range sheet.Crew {
		fmt.Fprintf(buf, "  %s\n", role)
	}

	if sheet.Notes != "" {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, "NOTES")
		fmt.Fprintln(buf, strings.Repeat("-", 60))
		fmt.Fprintf(buf, "  %s\n", sheet.Notes)
	}

	return buf.Bytes(), nil
}

func truncate(raw string, max int) string {
	runes := []rune(raw)
	if len(runes) <= max {
		return raw
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
