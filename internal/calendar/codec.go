package calendar

import (
	"fmt"
	"strconv"
	"strings"
)

// dropTargetPrefix tags encoded day identifiers so arbitrary droppable ids
// never decode to a date by accident.
const dropTargetPrefix = "day"

// EncodeDropTarget renders a day as the identifier shared with the drag
// surface: "day-{year}-{month}-{day}", month 0-based.
func EncodeDropTarget(d Day) string {
	return fmt.Sprintf("%s-%d-%d-%d", dropTargetPrefix, d.Year, d.Month, d.Day)
}

// DecodeDropTarget parses a drop-target identifier. It fails closed: wrong
// prefix, wrong field count, non-numeric fields or an impossible date all
// return ok=false rather than a default day. decode(encode(d)) == d holds for
// every valid day.
func DecodeDropTarget(s string) (Day, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 4 || parts[0] != dropTargetPrefix {
		return Day{}, false
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return Day{}, false
	}
	month, err := strconv.Atoi(parts[2])
	if err != nil {
		return Day{}, false
	}
	day, err := strconv.Atoi(parts[3])
	if err != nil {
		return Day{}, false
	}

	if year < 1 || month < 0 || month > 11 {
		return Day{}, false
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return Day{}, false
	}

	return Day{Year: year, Month: month, Day: day}, true
}
