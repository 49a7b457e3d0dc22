package dto

import (
	"time"

	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
)

// OccupancyQuery scopes an occupancy computation.
type OccupancyQuery struct {
	SemesterID string
	ProgramIDs []string
	Tab        models.SlotTab
	Date       string
}

// OccupancyCount is a booked/total pair with its rendered percentage.
type OccupancyCount struct {
	Booked     int    `json:"booked"`
	Total      int    `json:"total"`
	Percentage string `json:"percentage"`
}

// NewOccupancyCount renders a routine.Count.
func NewOccupancyCount(c routine.Count) OccupancyCount {
	return OccupancyCount{Booked: c.Booked, Total: c.Total, Percentage: c.Label()}
}

// OccupancySlot is one header column of the occupancy grid.
type OccupancySlot struct {
	Slot      string          `json:"slot"`
	Type      models.SlotType `json:"type"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Display   string          `json:"display"`
}

// OccupancyResponse is the dashboard occupancy payload. Cells is keyed by day then slot.
type OccupancyResponse struct {
	SemesterID  string                               `json:"semesterId"`
	ProgramIDs  []string                             `json:"programIds"`
	Tab         models.SlotTab                       `json:"tab"`
	Date        string                               `json:"date,omitempty"`
	Days        []string                             `json:"days"`
	Slots       []OccupancySlot                      `json:"slots"`
	Cells       map[string]map[string]OccupancyCount `json:"cells"`
	DayTotals   map[string]OccupancyCount            `json:"dayTotals"`
	SlotTotals  map[string]OccupancyCount            `json:"slotTotals"`
	Total       OccupancyCount                       `json:"total"`
	GeneratedAt time.Time                            `json:"generatedAt"`
}

// CourseLoadQuery scopes the course load listing.
type CourseLoadQuery struct {
	SemesterID string
	ProgramID  string
	Criteria   routine.Criteria
	Page       int
	PageSize   int
}

// CourseLoadItem is a root or merged section with its own and aggregated stats.
type CourseLoadItem struct {
	models.Enrollment
	Stats     routine.Stats    `json:"stats"`
	TreeStats routine.Stats    `json:"treeStats"`
	Children  []CourseLoadItem `json:"children"`
}

// CourseLoadResponse lists merge forest roots for one semester. IntegrityErrors
// lists merge cycles that were broken to build the listing; handlers move them
// into the response meta.
type CourseLoadResponse struct {
	SemesterID      string                   `json:"semesterId"`
	TotalCredit     float64                  `json:"totalCredit"`
	Courses         []CourseLoadItem         `json:"courses"`
	IntegrityErrors []routine.IntegrityError `json:"-"`
}

// TeacherLoadQuery scopes the teacher load listing.
type TeacherLoadQuery struct {
	SemesterID string
	ProgramID  string
	Criteria   routine.Criteria
	Page       int
	PageSize   int
}

// OccurrenceResponse reports weekday occurrences within a date range.
type OccurrenceResponse struct {
	Day       string `json:"day"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Count     int    `json:"count"`
}
