package models

import (
	"strings"
	"time"
)

// Weekdays lists day names Saturday first, the usual academic week start.
var Weekdays = []string{"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// NormalizeDay maps "mon", "MONDAY" or "Monday" onto "Monday". Unknown input yields "".
func NormalizeDay(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if len(raw) < 3 {
		return ""
	}
	for _, day := range Weekdays {
		lower := strings.ToLower(day)
		if raw == lower || raw == lower[:3] {
			return day
		}
	}
	return ""
}

// ParseWeekday converts a day name into time.Weekday.
func ParseWeekday(raw string) (time.Weekday, bool) {
	day := NormalizeDay(raw)
	if day == "" {
		return 0, false
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == day {
			return wd, true
		}
	}
	return 0, false
}

// WeekOrder returns Weekdays rotated to begin at start; invalid input keeps Saturday first.
func WeekOrder(start string) []string {
	start = NormalizeDay(start)
	order := make([]string, 0, len(Weekdays))
	offset := 0
	for i, day := range Weekdays {
		if day == start {
			offset = i
		}
	}
	for i := range Weekdays {
		order = append(order, Weekdays[(offset+i)%len(Weekdays)])
	}
	return order
}
