package routine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

func theory(start, end string) models.TimeSlot {
	return models.TimeSlot{Type: models.SlotTypeTheory, StartTime: start, EndTime: end}
}

func lab(start, end string) models.TimeSlot {
	return models.TimeSlot{Type: models.SlotTypeLab, StartTime: start, EndTime: end}
}

func TestSortSlotsTheoryFirstThenStart(t *testing.T) {
	input := []models.TimeSlot{lab("08:00", "10:00"), theory("10:00", "11:30"), theory("08:30", "10:00")}
	sorted := SortSlots(input)

	assert.Equal(t, []models.TimeSlot{theory("08:30", "10:00"), theory("10:00", "11:30"), lab("08:00", "10:00")}, sorted)
	assert.Equal(t, models.SlotTypeLab, input[0].Type, "input must not be reordered")
}

func TestFilterByTab(t *testing.T) {
	slots := []models.TimeSlot{theory("08:30", "10:00"), lab("08:00", "10:00")}
	assert.Len(t, FilterByTab(slots, models.SlotTabAll), 2)
	assert.Equal(t, []models.TimeSlot{lab("08:00", "10:00")}, FilterByTab(slots, models.SlotTabLab))
	assert.Equal(t, []models.TimeSlot{theory("08:30", "10:00")}, FilterByTab(slots, models.SlotTabTheory))
}

func TestEffectiveRoomSlotsFallsBackToDefaults(t *testing.T) {
	defaults := []models.TimeSlot{theory("08:30", "10:00")}
	assert.Equal(t, defaults, EffectiveRoomSlots(models.Room{}, defaults))

	own := models.TimeSlotList{lab("14:00", "16:00")}
	assert.Equal(t, []models.TimeSlot(own), EffectiveRoomSlots(models.Room{RoomSpecificSlots: own}, defaults))
}

func TestContainsSlotMatchesByValue(t *testing.T) {
	slots := []models.TimeSlot{{ID: "a", Type: models.SlotTypeTheory, StartTime: "08:30", EndTime: "10:00"}}
	assert.True(t, ContainsSlot(slots, models.TimeSlot{ID: "other", Type: models.SlotTypeTheory, StartTime: "08:30", EndTime: "10:00"}))
	assert.False(t, ContainsSlot(slots, lab("08:30", "10:00")))
}

func TestHeaderSlots(t *testing.T) {
	defaults := []models.TimeSlot{theory("08:30", "10:00"), lab("14:00", "16:00")}
	cse := models.Program{PID: "CSE", ProgramSpecificSlots: models.TimeSlotList{theory("07:00", "08:30")}}
	eee := models.Program{PID: "EEE", ProgramSpecificSlots: models.TimeSlotList{theory("08:30", "10:00"), theory("11:30", "13:00")}}
	bba := models.Program{PID: "BBA"}

	t.Run("single program uses its own slots", func(t *testing.T) {
		assert.Equal(t, []models.TimeSlot{theory("07:00", "08:30")}, HeaderSlots([]models.Program{cse}, defaults, models.SlotTabAll))
	})

	t.Run("single program without slots uses defaults", func(t *testing.T) {
		assert.Equal(t, []models.TimeSlot{lab("14:00", "16:00")}, HeaderSlots([]models.Program{bba}, defaults, models.SlotTabLab))
	})

	t.Run("semester wide unions and dedupes", func(t *testing.T) {
		slots := HeaderSlots([]models.Program{cse, eee}, defaults, models.SlotTabAll)
		assert.Equal(t, []models.TimeSlot{
			theory("07:00", "08:30"),
			theory("08:30", "10:00"),
			theory("11:30", "13:00"),
			lab("14:00", "16:00"),
		}, slots)
	})

	t.Run("lab tab keeps slot sharing times with a theory slot", func(t *testing.T) {
		labDefaults := []models.TimeSlot{theory("08:00", "09:30")}
		phy := models.Program{PID: "PHY", ProgramSpecificSlots: models.TimeSlotList{lab("08:00", "09:30")}}
		math := models.Program{PID: "MATH"}

		wide := HeaderSlots([]models.Program{phy, math}, labDefaults, models.SlotTabLab)
		single := HeaderSlots([]models.Program{phy}, labDefaults, models.SlotTabLab)
		assert.Equal(t, []models.TimeSlot{lab("08:00", "09:30")}, wide)
		assert.Equal(t, single, wide)
	})
}
