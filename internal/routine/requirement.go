package routine

import (
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

const isoDate = "2006-01-02"

func parseISODate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(isoDate, raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dayOf(date string) string {
	t, ok := parseISODate(date)
	if !ok {
		return ""
	}
	return t.Weekday().String()
}

// CountDayOccurrences counts dates falling on day within [start, end] inclusive.
// Empty or malformed input, an unknown day or a reversed range yield 0.
func CountDayOccurrences(day, start, end string) int {
	target, ok := models.ParseWeekday(day)
	if !ok {
		return 0
	}
	from, ok := parseISODate(start)
	if !ok {
		return 0
	}
	to, ok := parseISODate(end)
	if !ok || to.Before(from) {
		return 0
	}

	offset := (int(target) - int(from.Weekday()) + 7) % 7
	first := from.AddDate(0, 0, offset)
	if first.After(to) {
		return 0
	}
	days := int(to.Sub(first).Hours() / 24)
	return 1 + days/7
}

// ScheduledDays returns the weekdays on which section holds a class anywhere in
// the routine.
func ScheduledDays(section models.Enrollment, routine models.FullRoutineData) []string {
	days := make([]string, 0, len(models.Weekdays))
	for _, day := range models.Weekdays {
		if sectionOnDay(section, routine[day]) {
			days = append(days, day)
		}
	}
	return days
}

func sectionOnDay(section models.Enrollment, rooms map[string]map[string]*models.ClassDetail) bool {
	for _, slots := range rooms {
		for _, detail := range slots {
			if section.Matches(detail) {
				return true
			}
		}
	}
	return false
}

// ClassesInWeek counts routine cells occupied by section.
func ClassesInWeek(section models.Enrollment, routine models.FullRoutineData) int {
	count := 0
	for _, rooms := range routine {
		for _, slots := range rooms {
			for _, detail := range slots {
				if section.Matches(detail) {
					count++
				}
			}
		}
	}
	return count
}

// Calculator derives class requirement figures. The logger only receives
// diagnostics for unusable semester calendars.
type Calculator struct {
	logger *zap.Logger
}

// NewCalculator builds a Calculator; a nil logger discards diagnostics.
func NewCalculator(logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{logger: logger}
}

// ClassRequirement is the number of meetings section should have across the
// semester range of its program's semester system. A section absent from the
// routine, or a missing or malformed range, yields 0.
func (c *Calculator) ClassRequirement(section models.Enrollment, routine models.FullRoutineData, program models.Program, semester models.SemesterConfig) int {
	days := ScheduledDays(section, routine)
	if len(days) == 0 {
		return 0
	}
	dates, ok := semester.RangeFor(program.SemesterSystem)
	if !ok {
		return 0
	}
	if _, ok := parseISODate(dates.StartDate); !ok {
		c.malformed(section, program, dates)
		return 0
	}
	if _, ok := parseISODate(dates.EndDate); !ok {
		c.malformed(section, program, dates)
		return 0
	}

	total := 0
	for _, day := range days {
		total += CountDayOccurrences(day, dates.StartDate, dates.EndDate)
	}
	return total
}

func (c *Calculator) malformed(section models.Enrollment, program models.Program, dates models.DateRange) {
	c.logger.Warn("malformed semester date range",
		zap.String("section_id", section.SectionID),
		zap.String("p_id", program.PID),
		zap.String("semester_system", program.SemesterSystem),
		zap.String("start_date", dates.StartDate),
		zap.String("end_date", dates.EndDate),
	)
}

// SectionStats computes each section's own stats keyed by section id. Sections
// whose program is unknown get a class requirement of 0.
func (c *Calculator) SectionStats(sections []models.Enrollment, routine models.FullRoutineData, programs []models.Program, semester models.SemesterConfig) map[string]Stats {
	byPID := make(map[string]models.Program, len(programs))
	for _, program := range programs {
		byPID[program.PID] = program
	}

	stats := make(map[string]Stats, len(sections))
	for _, section := range sections {
		own := Stats{
			Students: section.StudentCount,
			CIW:      ClassesInWeek(section, routine),
			CAT:      section.ClassTaken,
		}
		if program, ok := byPID[section.PID]; ok {
			own.CR = c.ClassRequirement(section, routine, program, semester)
		}
		stats[section.SectionID] = own
	}
	return stats
}
