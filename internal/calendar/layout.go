// Package calendar holds the pure month-grid and drop-target logic the
// scheduling engine is built on. Months are 0-based throughout (January = 0),
// matching the identifiers the drag surface exchanges.
package calendar

import "time"

// Day addresses one real calendar day cell.
type Day struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 0-based
	Day   int `json:"day"`
}

// Date returns the midnight instant of the day in loc.
func (d Day) Date(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, 0, 0, 0, 0, loc)
}

// DaySlot is one cell of a rendered month grid. Day is 0 for the blank
// padding cells before the month's first real day.
type DaySlot struct {
	Day int `json:"day"`
}

// Blank reports whether the slot is grid padding.
func (s DaySlot) Blank() bool {
	return s.Day == 0
}

// DaysInMonth returns the number of days in the given 0-based month,
// accounting for leap years.
func DaysInMonth(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOffset returns how many blank cells pad the grid before day 1,
// with weeks starting on Sunday.
func FirstWeekdayOffset(year, month int) int {
	first := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	return int(first.Weekday())
}

// MonthLayout builds the ordered cell sequence for a month: the leading
// blanks, then 1..DaysInMonth. Year/month rollover is handled by time.Date,
// so month -1 is December of the prior year and month 12 is next January.
func MonthLayout(year, month int) []DaySlot {
	offset := FirstWeekdayOffset(year, month)
	days := DaysInMonth(year, month)

	slots := make([]DaySlot, 0, offset+days)
	for i := 0; i < offset; i++ {
		slots = append(slots, DaySlot{})
	}
	for d := 1; d <= days; d++ {
		slots = append(slots, DaySlot{Day: d})
	}
	return slots
}
