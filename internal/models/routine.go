package models

import "time"

// ClassDetail is the denormalised class occupying one routine cell.
type ClassDetail struct {
	CourseCode string `json:"courseCode" db:"course_code" validate:"required"`
	Section    string `json:"section" db:"section" validate:"required"`
	PID        string `json:"pId" db:"p_id" validate:"required"`
	Teacher    string `json:"teacher" db:"teacher"`
	LevelTerm  string `json:"levelTerm" db:"level_term"`
	Color      string `json:"color" db:"color"`
}

// FullRoutineData is day -> room number -> slot string -> class. Absent keys
// and nil values both mean a free cell.
type FullRoutineData map[string]map[string]map[string]*ClassDetail

// Cell returns the class at day/room/slot, or nil.
func (r FullRoutineData) Cell(day, roomNumber, slot string) *ClassDetail {
	rooms, ok := r[day]
	if !ok {
		return nil
	}
	slots, ok := rooms[roomNumber]
	if !ok {
		return nil
	}
	return slots[slot]
}

// Set stores a class in the grid, allocating nested maps as needed.
func (r FullRoutineData) Set(day, roomNumber, slot string, detail *ClassDetail) {
	if r[day] == nil {
		r[day] = make(map[string]map[string]*ClassDetail)
	}
	if r[day][roomNumber] == nil {
		r[day][roomNumber] = make(map[string]*ClassDetail)
	}
	r[day][roomNumber][slot] = detail
}

// RoutineEntry is the persisted row behind one routine cell.
type RoutineEntry struct {
	ID         string `db:"id" json:"id"`
	SemesterID string `db:"semester_id" json:"semesterId"`
	Day        string `db:"day" json:"day"`
	RoomNumber string `db:"room_number" json:"roomNumber"`
	Slot       string `db:"slot" json:"slot"`
	ClassDetail
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// BuildRoutine assembles persisted rows into the nested routine grid.
func BuildRoutine(entries []RoutineEntry) FullRoutineData {
	routine := make(FullRoutineData)
	for _, entry := range entries {
		day := NormalizeDay(entry.Day)
		if day == "" {
			continue
		}
		detail := entry.ClassDetail
		routine.Set(day, entry.RoomNumber, entry.Slot, &detail)
	}
	return routine
}

// ScheduleOverrides is room number -> slot string -> ISO date -> class.
// A nil class marks the cell as explicitly freed on that date.
type ScheduleOverrides map[string]map[string]map[string]*ClassDetail

// OverrideEntry is the persisted row behind one override. A nil CourseCode
// stores a freed cell.
type OverrideEntry struct {
	ID         string    `db:"id" json:"id"`
	SemesterID string    `db:"semester_id" json:"semesterId"`
	RoomNumber string    `db:"room_number" json:"roomNumber"`
	Slot       string    `db:"slot" json:"slot"`
	Date       string    `db:"date" json:"date"`
	CourseCode *string   `db:"course_code" json:"courseCode,omitempty"`
	Section    *string   `db:"section" json:"section,omitempty"`
	PID        *string   `db:"p_id" json:"pId,omitempty"`
	Teacher    *string   `db:"teacher" json:"teacher,omitempty"`
	LevelTerm  *string   `db:"level_term" json:"levelTerm,omitempty"`
	Color      *string   `db:"color" json:"color,omitempty"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Detail converts the row into a class, or nil for a freed cell.
func (o OverrideEntry) Detail() *ClassDetail {
	if o.CourseCode == nil {
		return nil
	}
	return &ClassDetail{
		CourseCode: *o.CourseCode,
		Section:    deref(o.Section),
		PID:        deref(o.PID),
		Teacher:    deref(o.Teacher),
		LevelTerm:  deref(o.LevelTerm),
		Color:      deref(o.Color),
	}
}

// BuildOverrides assembles override rows into the nested override map.
func BuildOverrides(entries []OverrideEntry) ScheduleOverrides {
	overrides := make(ScheduleOverrides)
	for _, entry := range entries {
		if overrides[entry.RoomNumber] == nil {
			overrides[entry.RoomNumber] = make(map[string]map[string]*ClassDetail)
		}
		if overrides[entry.RoomNumber][entry.Slot] == nil {
			overrides[entry.RoomNumber][entry.Slot] = make(map[string]*ClassDetail)
		}
		overrides[entry.RoomNumber][entry.Slot][entry.Date] = entry.Detail()
	}
	return overrides
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
