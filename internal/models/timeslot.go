package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SlotType distinguishes theory periods from lab periods.
type SlotType string

const (
	SlotTypeTheory SlotType = "Theory"
	SlotTypeLab    SlotType = "Lab"
)

// SlotTab is the dashboard tab narrowing the visible slot headers.
type SlotTab string

const (
	SlotTabAll    SlotTab = "All"
	SlotTabTheory SlotTab = "Theory"
	SlotTabLab    SlotTab = "Lab"
)

// ParseSlotTab maps free-form input onto a tab, defaulting to All.
func ParseSlotTab(raw string) SlotTab {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "theory":
		return SlotTabTheory
	case "lab":
		return SlotTabLab
	default:
		return SlotTabAll
	}
}

// TimeSlot is one bookable period. Start and end use 24h "HH:MM".
type TimeSlot struct {
	ID        string   `db:"id" json:"id"`
	Type      SlotType `db:"type" json:"type" validate:"required,oneof=Theory Lab"`
	StartTime string   `db:"start_time" json:"startTime" validate:"required,clock"`
	EndTime   string   `db:"end_time" json:"endTime" validate:"required,clock"`
}

// String returns the canonical "<start> - <end>" form used as routine cell key.
func (s TimeSlot) String() string {
	return s.StartTime + " - " + s.EndTime
}

// Key identifies a slot by type and times rather than by id.
func (s TimeSlot) Key() string {
	return string(s.Type) + "|" + s.StartTime + "|" + s.EndTime
}

// Display renders the slot with 12h clock times.
func (s TimeSlot) Display() string {
	return To12Hour(s.StartTime) + " - " + To12Hour(s.EndTime)
}

// Valid reports whether both clocks parse and start precedes end.
func (s TimeSlot) Valid() bool {
	start, ok1 := ClockMinutes(s.StartTime)
	end, ok2 := ClockMinutes(s.EndTime)
	return ok1 && ok2 && start < end
}

// ParseSlotString splits a canonical "<start> - <end>" slot string. ok is false
// unless both clocks parse and start precedes end.
func ParseSlotString(raw string) (start, end string, ok bool) {
	parts := strings.Split(raw, " - ")
	if len(parts) != 2 {
		return "", "", false
	}
	slot := TimeSlot{StartTime: strings.TrimSpace(parts[0]), EndTime: strings.TrimSpace(parts[1])}
	if !slot.Valid() {
		return "", "", false
	}
	return slot.StartTime, slot.EndTime, true
}

// ClockMinutes converts "HH:MM" into minutes after midnight.
func ClockMinutes(clock string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// To12Hour renders "13:05" as "01:05 PM". Unparseable input is returned unchanged.
func To12Hour(clock string) string {
	minutes, ok := ClockMinutes(clock)
	if !ok {
		return clock
	}
	h, m := minutes/60, minutes%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h, m, suffix)
}

// TimeSlotList is a slot list persisted as JSONB.
type TimeSlotList []TimeSlot

// Value marshals the list for persistence.
func (l TimeSlotList) Value() (driver.Value, error) {
	if l == nil {
		l = TimeSlotList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal time slots: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSONB slot list.
func (l *TimeSlotList) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan time slots: %w", err)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(data, l); err != nil {
		return fmt.Errorf("unmarshal time slots: %w", err)
	}
	return nil
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", value)
	}
}
