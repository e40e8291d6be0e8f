package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cineboard/cineboard-api/internal/service"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
	"github.com/cineboard/cineboard-api/pkg/response"
)

// CalendarHandler exposes the month-grid and day-view endpoints.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// MonthGrid godoc
// @Summary Calendar month grid
// @Description Materialize schedule events into a month grid with shoot day labels
// @Tags Calendar
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/{year}/{month} [get]
func (h *CalendarHandler) MonthGrid(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 2200 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid year"))
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid month"))
		return
	}

	grid, err := h.service.MonthGrid(c.Request.Context(), year, month, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid)
}

// DayEvents godoc
// @Summary Events for a single day
// @Tags Calendar
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/day [get]
func (h *CalendarHandler) DayEvents(c *gin.Context) {
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD"))
		return
	}
	result, err := h.service.DayEvents(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
