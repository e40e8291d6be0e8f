package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

type stubEventsProvider struct {
	events []models.ScheduleEvent
	err    error
}

func (s *stubEventsProvider) Events(ctx context.Context) ([]models.ScheduleEvent, error) {
	return s.events, s.err
}

func dayEvent(id string, date time.Time, location string) models.ScheduleEvent {
	return models.ScheduleEvent{
		ID:        id,
		Date:      date,
		StartTime: "09:00",
		EndTime:   "18:00",
		Location:  location,
		Status:    models.EventStatusScheduled,
	}
}

func TestEventsOnDateMatchesCalendarDate(t *testing.T) {
	march2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	events := []models.ScheduleEvent{
		dayEvent("a", march2, "Warehouse"),
		dayEvent("b", march2.Add(5*time.Hour), "Rooftop"), // same date, later instant
		dayEvent("c", march2.AddDate(0, 0, 1), "Diner"),
	}

	matched := EventsOnDate(events, march2)

	require.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0].ID)
	assert.Equal(t, "b", matched[1].ID)
}

func TestShootDayLabelOrdersByDate(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 3)
	events := []models.ScheduleEvent{
		dayEvent("later", day2, "Diner"),
		dayEvent("earlier", day1, "Warehouse"),
		dayEvent("earlier-2", day1, "Warehouse"),
	}

	assert.Equal(t, "Day 1", ShootDayLabel(events, day1))
	assert.Equal(t, "Day 2", ShootDayLabel(events, day2))
	assert.Equal(t, "", ShootDayLabel(events, day1.AddDate(0, 0, 1)))
}

func TestShootDayLabelStableAcrossEdits(t *testing.T) {
	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	events := []models.ScheduleEvent{
		dayEvent("a", day1, "Warehouse"),
		dayEvent("b", day2, "Diner"),
	}

	before := ShootDayLabel(events, day2)

	// Editing non-date fields must not shift labels.
	events[0].Location = "Rooftop"
	events[0].StartTime = "06:00"

	assert.Equal(t, before, ShootDayLabel(events, day2))
}

func TestMonthGridPaddingAndCells(t *testing.T) {
	// March 2026 starts on a Sunday, so the grid has no padding cells.
	svc := NewCalendarService(&stubEventsProvider{}, nil)
	grid, err := svc.MonthGrid(context.Background(), 2026, 3, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, grid.Cells, 31)
	assert.Equal(t, 1, grid.Cells[0].Day)

	var todays int
	for _, cell := range grid.Cells {
		if cell.IsToday {
			todays++
			assert.Equal(t, 15, cell.Day)
		}
	}
	assert.Equal(t, 1, todays)

	// April 2026 starts on a Wednesday: three leading padding cells.
	grid, err = svc.MonthGrid(context.Background(), 2026, 4, time.Time{})
	require.NoError(t, err)
	require.Len(t, grid.Cells, 3+30)
	assert.Equal(t, 0, grid.Cells[0].Day)
	assert.Equal(t, 0, grid.Cells[2].Day)
	assert.Equal(t, 1, grid.Cells[3].Day)
}

func TestMonthGridTruncatesBusyDays(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	provider := &stubEventsProvider{events: []models.ScheduleEvent{
		dayEvent("a", date, "Warehouse"),
		dayEvent("b", date, "Rooftop"),
		dayEvent("c", date, "Diner"),
		dayEvent("d", date, "Harbor"),
	}}
	svc := NewCalendarService(provider, nil)

	grid, err := svc.MonthGrid(context.Background(), 2026, 3, time.Time{})

	require.NoError(t, err)
	cell := grid.Cells[9] // March starts on Sunday, no padding
	assert.Equal(t, 10, cell.Day)
	assert.Len(t, cell.Events, 2)
	assert.Equal(t, 2, cell.OverflowCount)
	assert.Equal(t, "Day 1", cell.ShootDayLabel)
}

func TestMonthGridRejectsInvalidMonth(t *testing.T) {
	svc := NewCalendarService(&stubEventsProvider{}, nil)

	_, err := svc.MonthGrid(context.Background(), 2026, 13, time.Time{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDayEventsIncludesLabel(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	provider := &stubEventsProvider{events: []models.ScheduleEvent{
		dayEvent("a", date, "Warehouse"),
	}}
	svc := NewCalendarService(provider, nil)

	resp, err := svc.DayEvents(context.Background(), date)

	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "Day 1", resp.ShootDayLabel)
	require.Len(t, resp.Events, 1)
}
