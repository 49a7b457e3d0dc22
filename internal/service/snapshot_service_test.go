package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/models"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type semesterRoomsStub struct {
	rooms []models.Room
	calls int
}

func (r *semesterRoomsStub) ListBySemester(context.Context, string) ([]models.Room, error) {
	r.calls++
	return r.rooms, nil
}

type programCatalogStub struct {
	programs []models.Program
	err      error
}

func (r *programCatalogStub) ListAll(context.Context) ([]models.Program, error) {
	return r.programs, r.err
}

func newLoaderForTest(semesters *semesterRepoStub, rooms *semesterRoomsStub, programs *programCatalogStub) *SnapshotLoader {
	return NewSnapshotLoader(SnapshotLoaderParams{
		Semesters: semesters,
		Rooms:     rooms,
		Programs:  programs,
		Sections: newSectionRepoStub(
			models.Enrollment{SectionID: "s-1", SemesterID: "sem-1"},
			models.Enrollment{SectionID: "s-2", SemesterID: "sem-2"},
		),
		Routine:   &routineRepoStub{entries: sampleEntries()},
		Overrides: &overrideRepoStub{rows: []models.OverrideEntry{{RoomNumber: "301", Slot: sampleSlot, Date: "2024-01-07"}}},
		TimeSlots: &timeSlotRepoStub{slots: []models.TimeSlot{{Type: models.SlotTypeTheory, StartTime: "08:00", EndTime: "09:15"}}},
	})
}

func TestSnapshotLoaderLoadsRequestedParts(t *testing.T) {
	semesters := &semesterRepoStub{semesters: map[string]*models.SemesterConfig{
		"sem-1": {SemesterID: "sem-1", Name: "Spring", TypeConfigs: models.TypeConfigs{"Bi": {StartDate: "2024-01-01", EndDate: "2024-01-31"}}},
	}}
	rooms := &semesterRoomsStub{rooms: []models.Room{{RoomNumber: "301", AssignedToPID: "CSE"}}}
	loader := newLoaderForTest(semesters, rooms, &programCatalogStub{programs: []models.Program{{PID: "CSE"}}})

	snap, err := loader.Load(context.Background(), "sem-1", SnapshotOptions{Rooms: true, Sections: true, Overrides: "2024-01-07"})
	require.NoError(t, err)
	assert.Equal(t, "Spring", snap.Semester.Name)
	assert.Len(t, snap.Programs, 1)
	assert.Len(t, snap.Rooms, 1)
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "s-1", snap.Sections[0].SectionID)
	assert.NotNil(t, snap.Routine.Cell("Sunday", "301", sampleSlot))
	assert.Contains(t, snap.Overrides["301"][sampleSlot], "2024-01-07")
	assert.Len(t, snap.DefaultSlots, 1)

	minimal, err := loader.Load(context.Background(), "sem-1", SnapshotOptions{})
	require.NoError(t, err)
	assert.Nil(t, minimal.Rooms)
	assert.Nil(t, minimal.Sections)
	assert.Nil(t, minimal.Overrides)
	assert.Equal(t, 1, rooms.calls)
}

func TestSnapshotLoaderMissingSemesterYieldsEmptyCalendar(t *testing.T) {
	loader := newLoaderForTest(&semesterRepoStub{semesters: map[string]*models.SemesterConfig{}}, &semesterRoomsStub{}, &programCatalogStub{})

	snap, err := loader.Load(context.Background(), "sem-9", SnapshotOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sem-9", snap.Semester.SemesterID)
	assert.Empty(t, snap.Semester.TypeConfigs)
}

func TestSnapshotLoaderErrors(t *testing.T) {
	loader := newLoaderForTest(&semesterRepoStub{semesters: map[string]*models.SemesterConfig{}}, &semesterRoomsStub{}, &programCatalogStub{err: errors.New("db down")})

	_, err := loader.Load(context.Background(), "", SnapshotOptions{})
	require.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = loader.Load(context.Background(), "sem-1", SnapshotOptions{})
	require.ErrorIs(t, err, appErrors.ErrInternal)
}
