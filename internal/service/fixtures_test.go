package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/routine-admin-api/internal/models"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

const sampleSlot = "08:00 - 09:15"

type snapshotStub struct {
	snap     *Snapshot
	err      error
	calls    int
	lastOpts SnapshotOptions
}

func (s *snapshotStub) Load(_ context.Context, _ string, opts SnapshotOptions) (*Snapshot, error) {
	s.calls++
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

// memoryCache mimics the Redis repository with JSON round trips.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

type invalidatorStub struct {
	semesters []string
}

func (i *invalidatorStub) InvalidateSemester(_ context.Context, semesterID string) {
	i.semesters = append(i.semesters, semesterID)
}

func strPtr(v string) *string {
	return &v
}

// sampleSnapshot holds two programs sharing one default theory slot. CSE runs
// on Sunday and Monday with room 301; EEE runs on Tuesday with room 401. One
// CSE class is booked on Sunday.
func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Semester: models.SemesterConfig{
			SemesterID:  "sem-1",
			TypeConfigs: models.TypeConfigs{"Bi": {StartDate: "2024-01-01", EndDate: "2024-01-31"}},
		},
		Programs: []models.Program{
			{PID: "CSE", SemesterSystem: "Bi", ActiveDays: []string{"Sunday", "Monday"}},
			{PID: "EEE", SemesterSystem: "Bi", ActiveDays: []string{"Tuesday"}},
		},
		Rooms: []models.Room{
			{ID: "room-1", RoomNumber: "301", AssignedToPID: "CSE"},
			{ID: "room-2", RoomNumber: "401", AssignedToPID: "EEE"},
		},
		DefaultSlots: []models.TimeSlot{{Type: models.SlotTypeTheory, StartTime: "08:00", EndTime: "09:15"}},
		Routine: models.FullRoutineData{
			"Sunday": {"301": {sampleSlot: {CourseCode: "CSE101", Section: "A", PID: "CSE", Teacher: "RK"}}},
		},
		Sections: []models.Enrollment{
			{SectionID: "s-a", CourseCode: "CSE101", CourseTitle: "Programming", Section: "A", PID: "CSE", Credit: 3, CourseType: "Theory", StudentCount: 40, ClassTaken: 2, TeacherID: "t-1", TeacherName: "Rahim Khan", Designation: "Lecturer"},
			{SectionID: "s-b", CourseCode: "CSE101", CourseTitle: "Programming", Section: "B", PID: "CSE", Credit: 3, CourseType: "Theory", StudentCount: 30, ClassTaken: 1, TeacherID: "t-1", TeacherName: "Rahim Khan", Designation: "Lecturer", MergedWithSectionID: strPtr("s-a")},
			{SectionID: "s-c", CourseCode: "EEE201", CourseTitle: "Circuits", Section: "A", PID: "EEE", Credit: 1.5, CourseType: "Lab", StudentCount: 25, TeacherID: "t-2", TeacherName: "Nadia Islam", Designation: "Professor"},
		},
	}
}
