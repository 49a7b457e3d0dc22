package routine

import (
	"fmt"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// NotApplicable is rendered in place of a percentage when nothing is bookable.
const NotApplicable = "N/A"

// Count is a booked/total pair.
type Count struct {
	Booked int `json:"booked"`
	Total  int `json:"total"`
}

func (c Count) add(o Count) Count {
	return Count{Booked: c.Booked + o.Booked, Total: c.Total + o.Total}
}

// Percentage returns booked/total*100. ok is false when total is zero.
func (c Count) Percentage() (float64, bool) {
	if c.Total == 0 {
		return 0, false
	}
	return float64(c.Booked) * 100 / float64(c.Total), true
}

// Label renders the percentage with one decimal, or NotApplicable.
func (c Count) Label() string {
	pct, ok := c.Percentage()
	if !ok {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// OccupancyInput is one read-only snapshot for ComputeOccupancy.
type OccupancyInput struct {
	Rooms        []models.Room
	Programs     []models.Program
	ScopePIDs    []string
	Routine      models.FullRoutineData
	DefaultSlots []models.TimeSlot
	Tab          models.SlotTab
	WeekStart    string
}

// OccupancyResult holds per-cell, per-day, per-slot and overall counts. Cells
// and SlotTotals are keyed by the canonical slot string.
type OccupancyResult struct {
	Days       []string                    `json:"days"`
	Slots      []models.TimeSlot           `json:"slots"`
	Cells      map[string]map[string]Count `json:"cells"`
	DayTotals  map[string]Count            `json:"dayTotals"`
	SlotTotals map[string]Count            `json:"slotTotals"`
	Total      Count                       `json:"total"`
}

// ScopeSet returns the in-scope program ids. An empty scope means every program.
func ScopeSet(programs []models.Program, scope []string) map[string]struct{} {
	set := make(map[string]struct{})
	if len(scope) == 0 {
		for _, program := range programs {
			set[program.PID] = struct{}{}
		}
		return set
	}
	for _, pid := range scope {
		if pid != "" {
			set[pid] = struct{}{}
		}
	}
	return set
}

// RoomsInScope keeps rooms assigned to or shared with an in-scope program.
func RoomsInScope(rooms []models.Room, scope map[string]struct{}) []models.Room {
	filtered := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := scope[room.AssignedToPID]; ok {
			filtered = append(filtered, room)
			continue
		}
		for _, pid := range room.SharedWithPIDs {
			if _, ok := scope[pid]; ok {
				filtered = append(filtered, room)
				break
			}
		}
	}
	return filtered
}

// ComputeOccupancy counts bookable and booked room slots for the scoped programs.
// A room is bookable on a day/slot when its assigned program is active that day
// and the slot is among the room's effective slots. It is booked when the
// routine holds a class of an in-scope program in that cell.
//
// Booked is counted independently of bookability, so a cell may report
// Booked > Total: a class placed on a day its room's program is inactive, or
// in a slot outside the room's own slots, still counts as booked. Count.Percentage
// can then exceed 100, so display code should not assume Booked <= Total.
func ComputeOccupancy(in OccupancyInput) OccupancyResult {
	scope := ScopeSet(in.Programs, in.ScopePIDs)
	byPID := make(map[string]models.Program, len(in.Programs))
	scoped := make([]models.Program, 0, len(scope))
	for _, program := range in.Programs {
		byPID[program.PID] = program
		if _, ok := scope[program.PID]; ok {
			scoped = append(scoped, program)
		}
	}

	result := OccupancyResult{
		Days:       activeDays(scoped, in.WeekStart),
		Slots:      HeaderSlots(scoped, in.DefaultSlots, in.Tab),
		Cells:      make(map[string]map[string]Count),
		DayTotals:  make(map[string]Count),
		SlotTotals: make(map[string]Count),
	}

	roomSlots := make([][]models.TimeSlot, len(in.Rooms))
	for i, room := range in.Rooms {
		roomSlots[i] = EffectiveRoomSlots(room, in.DefaultSlots)
	}

	for _, day := range result.Days {
		row := make(map[string]Count, len(result.Slots))
		for _, slot := range result.Slots {
			key := slot.String()
			var count Count
			for i, room := range in.Rooms {
				program, ok := byPID[room.AssignedToPID]
				if ok && program.IsActiveOn(day) && ContainsSlot(roomSlots[i], slot) {
					count.Total++
				}
				if detail := in.Routine.Cell(day, room.RoomNumber, key); detail != nil {
					if _, inScope := scope[detail.PID]; inScope {
						count.Booked++
					}
				}
			}
			row[key] = count
			result.DayTotals[day] = result.DayTotals[day].add(count)
			result.SlotTotals[key] = result.SlotTotals[key].add(count)
			result.Total = result.Total.add(count)
		}
		result.Cells[day] = row
	}

	return result
}

func activeDays(programs []models.Program, weekStart string) []string {
	active := make(map[string]struct{})
	for _, program := range programs {
		for _, day := range program.ActiveDays {
			if normalized := models.NormalizeDay(day); normalized != "" {
				active[normalized] = struct{}{}
			}
		}
	}
	days := make([]string, 0, len(active))
	for _, day := range models.WeekOrder(weekStart) {
		if _, ok := active[day]; ok {
			days = append(days, day)
		}
	}
	return days
}

// ApplyOverrides returns the routine in effect on date (YYYY-MM-DD). An override
// class replaces the weekly cell; a nil override frees it. Inputs are not mutated.
func ApplyOverrides(routine models.FullRoutineData, overrides models.ScheduleOverrides, date string) models.FullRoutineData {
	effective := make(models.FullRoutineData, len(routine))
	for day, rooms := range routine {
		for roomNumber, slots := range rooms {
			for slot, detail := range slots {
				if detail != nil {
					effective.Set(day, roomNumber, slot, detail)
				}
			}
		}
	}

	day := dayOf(date)
	if day == "" {
		return effective
	}
	for roomNumber, slots := range overrides {
		for slot, dates := range slots {
			detail, ok := dates[date]
			if !ok {
				continue
			}
			if detail == nil {
				if rooms, exists := effective[day]; exists {
					if cells, exists := rooms[roomNumber]; exists {
						delete(cells, slot)
					}
				}
				continue
			}
			effective.Set(day, roomNumber, slot, detail)
		}
	}
	return effective
}
