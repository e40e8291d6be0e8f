package export

import "time"

// CallSheet is the renderer-agnostic document for one shoot day.
type CallSheet struct {
	ProductionTitle string
	Date            time.Time
	DayLabel        string
	Location        string
	CallTime        string
	WrapTime        string
	Scenes          []CallSheetScene
	Cast            []string
	Crew            []string
	Notes           string
}

// CallSheetScene is one scene row on the sheet.
type CallSheetScene struct {
	Number        int
	Title         string
	DurationHours float64
	Characters    []string
	VFX           bool
}
