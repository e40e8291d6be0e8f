package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
)

// visibleEventsPerCell is the month grid truncation: the first two
// events show, the rest collapse into an overflow count. This is a fixed
// presentation contract, not configuration.
const visibleEventsPerCell = 2

type scheduleEventsProvider interface {
	Events(ctx context.Context) ([]models.ScheduleEvent, error)
}

// CalendarService materializes the schedule into per-date and month
// views. Date comparison is timezone-naive: two instants match when
// their calendar date components match.
type CalendarService struct {
	schedule scheduleEventsProvider
	logger   *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(schedule scheduleEventsProvider, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{schedule: schedule, logger: logger}
}

// DayEvents returns the events on a single calendar date plus its
// shoot-day label.
func (s *CalendarService) DayEvents(ctx context.Context, date time.Time) (*dto.DayEventsResponse, error) {
	events, err := s.schedule.Events(ctx)
	if err != nil {
		return nil, err
	}
	matched := EventsOnDate(events, date)
	return &dto.DayEventsResponse{
		Date:          date.Format("2006-01-02"),
		ShootDayLabel: ShootDayLabel(events, date),
		Events:        matched,
	}, nil
}

// MonthGrid renders one month of the shoot calendar.
func (s *CalendarService) MonthGrid(ctx context.Context, year, month int, today time.Time) (*dto.MonthGridResponse, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	events, err := s.schedule.Events(ctx)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]dto.DayCell, 0, daysInMonth+int(first.Weekday()))
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, dto.DayCell{})
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		onDate := EventsOnDate(events, date)

		cell := dto.DayCell{
			Day:           day,
			Date:          date.Format("2006-01-02"),
			IsToday:       sameDate(date, today),
			ShootDayLabel: ShootDayLabel(events, date),
		}
		for i, event := range onDate {
			if i == visibleEventsPerCell {
				cell.OverflowCount = len(onDate) - visibleEventsPerCell
				break
			}
			cell.Events = append(cell.Events, dto.EventSummary{
				ID:         event.ID,
				Location:   event.Location,
				StartTime:  event.StartTime,
				SceneCount: len(event.Scenes),
			})
		}
		cells = append(cells, cell)
	}

	return &dto.MonthGridResponse{Year: year, Month: month, Cells: cells}, nil
}

// EventsOnDate filters events to those on the given calendar date,
// preserving their stored order.
func EventsOnDate(events []models.ScheduleEvent, date time.Time) []models.ScheduleEvent {
	var matched []models.ScheduleEvent
	for _, event := range events {
		if sameDate(event.Date, date) {
			matched = append(matched, event)
		}
	}
	return matched
}

// ShootDayLabel returns the 1-based "Day N" label for the date's
// position among all distinct event dates sorted chronologically, or ""
// when the date has no events. The label only depends on the set of
// dates, so edits that keep dates unchanged never shift it.
func ShootDayLabel(events []models.ScheduleEvent, date time.Time) string {
	seen := make(map[string]struct{})
	var dates []string
	for _, event := range events {
		key := event.Date.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dates = append(dates, key)
	}

	target := date.Format("2006-01-02")
	if _, ok := seen[target]; !ok {
		return ""
	}

	sort.Strings(dates)
	for i, key := range dates {
		if key == target {
			return fmt.Sprintf("Day %d", i+1)
		}
	}
	return ""
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
