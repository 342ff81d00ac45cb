package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mcawcutt/socialspark-scheduler/internal/calendar"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// CalendarHandlers serves the month grid the front end renders.
type CalendarHandlers struct{}

// NewCalendarHandlers builds the calendar handlers.
func NewCalendarHandlers() *CalendarHandlers {
	return &CalendarHandlers{}
}

// MonthLayout handles GET /calendar/:year/:month (month 0-based).
func (h *CalendarHandlers) MonthLayout(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 0 || month > 11 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid month, expected 0-11"})
		return
	}

	layout := calendar.MonthLayout(year, month)
	slots := make([]int, len(layout))
	for i, slot := range layout {
		slots[i] = slot.Day
	}

	c.JSON(http.StatusOK, models.MonthLayoutResponse{
		Year:        year,
		Month:       month,
		DaysInMonth: calendar.DaysInMonth(year, month),
		Slots:       slots,
	})
}
