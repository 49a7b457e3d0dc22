package routine

import (
	"sort"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// SortSlots returns a copy of slots ordered Theory before Lab, then by start time.
func SortSlots(slots []models.TimeSlot) []models.TimeSlot {
	sorted := make([]models.TimeSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := typeRank(sorted[i].Type), typeRank(sorted[j].Type)
		if ri != rj {
			return ri < rj
		}
		si, _ := models.ClockMinutes(sorted[i].StartTime)
		sj, _ := models.ClockMinutes(sorted[j].StartTime)
		if si != sj {
			return si < sj
		}
		ei, _ := models.ClockMinutes(sorted[i].EndTime)
		ej, _ := models.ClockMinutes(sorted[j].EndTime)
		return ei < ej
	})
	return sorted
}

func typeRank(t models.SlotType) int {
	switch t {
	case models.SlotTypeTheory:
		return 0
	case models.SlotTypeLab:
		return 1
	default:
		return 2
	}
}

// FilterByTab keeps slots visible under tab. SlotTabAll keeps everything.
func FilterByTab(slots []models.TimeSlot, tab models.SlotTab) []models.TimeSlot {
	filtered := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if tab == models.SlotTabAll || tab == "" || string(slot.Type) == string(tab) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// EffectiveRoomSlots returns the room's own slots, or defaults when it has none.
func EffectiveRoomSlots(room models.Room, defaults []models.TimeSlot) []models.TimeSlot {
	if len(room.RoomSpecificSlots) > 0 {
		return room.RoomSpecificSlots
	}
	return defaults
}

// EffectiveProgramSlots returns the program's own slots, or defaults when it has none.
func EffectiveProgramSlots(program models.Program, defaults []models.TimeSlot) []models.TimeSlot {
	if len(program.ProgramSpecificSlots) > 0 {
		return program.ProgramSpecificSlots
	}
	return defaults
}

// ContainsSlot matches by type and times, never by id.
func ContainsSlot(slots []models.TimeSlot, target models.TimeSlot) bool {
	key := target.Key()
	for _, slot := range slots {
		if slot.Key() == key {
			return true
		}
	}
	return false
}

// HeaderSlots resolves the slot columns shown for the scoped programs. The tab
// filter runs before de-duplication so a Lab slot sharing its times with a
// Theory slot still gets a Lab column.
func HeaderSlots(scoped []models.Program, defaults []models.TimeSlot, tab models.SlotTab) []models.TimeSlot {
	if len(scoped) == 1 {
		return SortSlots(FilterByTab(EffectiveProgramSlots(scoped[0], defaults), tab))
	}

	seen := make(map[string]struct{})
	union := make([]models.TimeSlot, 0, len(defaults))
	add := func(slots []models.TimeSlot) {
		for _, slot := range slots {
			if _, ok := seen[slot.String()]; ok {
				continue
			}
			seen[slot.String()] = struct{}{}
			union = append(union, slot)
		}
	}
	add(FilterByTab(defaults, tab))
	for _, program := range scoped {
		add(FilterByTab(program.ProgramSpecificSlots, tab))
	}
	return SortSlots(union)
}
