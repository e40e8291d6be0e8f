package dto

import "github.com/cineboard/cineboard-api/internal/models"

// EventSummary is the truncated per-cell event view of the month grid.
type EventSummary struct {
	ID         string `json:"id"`
	Location   string `json:"location"`
	StartTime  string `json:"start_time"`
	SceneCount int    `json:"scene_count"`
}

// DayCell is a single cell of the month grid. Padding cells carry Day=0
// and no other content.
type DayCell struct {
	Day           int            `json:"day"`
	Date          string         `json:"date,omitempty"`
	IsToday       bool           `json:"is_today,omitempty"`
	ShootDayLabel string         `json:"shoot_day_label,omitempty"`
	Events        []EventSummary `json:"events,omitempty"`
	OverflowCount int            `json:"overflow_count,omitempty"`
}

// MonthGridResponse renders one month of the shoot calendar.
type MonthGridResponse struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Cells []DayCell `json:"cells"`
}

// DayEventsResponse lists a single date's events with its shoot-day label.
type DayEventsResponse struct {
	Date          string                 `json:"date"`
	ShootDayLabel string                 `json:"shoot_day_label,omitempty"`
	Events        []models.ScheduleEvent `json:"events"`
}
