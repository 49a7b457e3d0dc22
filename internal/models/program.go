package models

import (
	"time"

	"github.com/lib/pq"
)

// Program is an academic program owning rooms and sections. PID is the stable
// external code used across routine cells.
type Program struct {
	ID                   string         `db:"id" json:"id"`
	PID                  string         `db:"p_id" json:"pId"`
	ShortName            string         `db:"short_name" json:"shortName"`
	FullName             string         `db:"full_name" json:"fullName"`
	SemesterSystem       string         `db:"semester_system" json:"semesterSystem"`
	ActiveDays           pq.StringArray `db:"active_days" json:"activeDays"`
	ProgramSpecificSlots TimeSlotList   `db:"program_specific_slots" json:"programSpecificSlots"`
	CreatedAt            time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsActiveOn reports whether the program holds classes on day.
func (p Program) IsActiveOn(day string) bool {
	day = NormalizeDay(day)
	for _, active := range p.ActiveDays {
		if NormalizeDay(active) == day && day != "" {
			return true
		}
	}
	return false
}

// ProgramFilter captures filtering options for listing programs.
type ProgramFilter struct {
	Search         string
	SemesterSystem string
	Page           int
	PageSize       int
}
