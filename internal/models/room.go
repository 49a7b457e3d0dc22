package models

import (
	"time"

	"github.com/lib/pq"
)

// Room is a bookable room for one semester. AssignedToPID is the primary
// program; SharedWithPIDs never contains it.
type Room struct {
	ID                string         `db:"id" json:"id"`
	RoomNumber        string         `db:"room_number" json:"roomNumber"`
	BuildingID        string         `db:"building_id" json:"buildingId"`
	FloorID           string         `db:"floor_id" json:"floorId"`
	CategoryID        string         `db:"category_id" json:"categoryId"`
	TypeID            string         `db:"type_id" json:"typeId"`
	Capacity          int            `db:"capacity" json:"capacity"`
	SemesterID        string         `db:"semester_id" json:"semesterId"`
	AssignedToPID     string         `db:"assigned_to_p_id" json:"assignedToPId"`
	SharedWithPIDs    pq.StringArray `db:"shared_with_p_ids" json:"sharedWithPIds"`
	RoomSpecificSlots TimeSlotList   `db:"room_specific_slots" json:"roomSpecificSlots"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`
}

// ServesProgram reports whether the room is assigned to or shared with pid.
func (r Room) ServesProgram(pid string) bool {
	if pid == "" {
		return false
	}
	if r.AssignedToPID == pid {
		return true
	}
	for _, shared := range r.SharedWithPIDs {
		if shared == pid {
			return true
		}
	}
	return false
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	SemesterID string
	BuildingID string
	ProgramID  string
	Page       int
	PageSize   int
}
