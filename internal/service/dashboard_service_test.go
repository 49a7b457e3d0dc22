package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/dto"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

func newDashboardForTest(snap *Snapshot) (*DashboardService, *snapshotStub, *memoryCache) {
	stub := &snapshotStub{snap: snap}
	store := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewDashboardService(DashboardServiceParams{
		Snapshots: stub,
		Cache:     NewCacheService(store, metrics, time.Minute, zap.NewNop(), true),
		Metrics:   metrics,
		Logger:    zap.NewNop(),
		Config:    DashboardServiceConfig{WeekStart: "Saturday"},
	})
	svc.now = func() time.Time { return time.Date(2024, 1, 7, 9, 0, 0, 0, time.UTC) }
	return svc, stub, store
}

func TestDashboardOccupancyAllPrograms(t *testing.T) {
	svc, _, _ := newDashboardForTest(sampleSnapshot())

	resp, hit, err := svc.Occupancy(context.Background(), dto.OccupancyQuery{SemesterID: "sem-1"})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"Sunday", "Monday", "Tuesday"}, resp.Days)
	assert.Equal(t, models.SlotTabAll, resp.Tab)
	assert.Equal(t, []string{}, resp.ProgramIDs)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, sampleSlot, resp.Slots[0].Slot)
	assert.Equal(t, dto.OccupancyCount{Booked: 1, Total: 3, Percentage: "33.3%"}, resp.Total)
	assert.Equal(t, dto.OccupancyCount{Booked: 1, Total: 1, Percentage: "100.0%"}, resp.Cells["Sunday"][sampleSlot])
	assert.Equal(t, 0, resp.DayTotals["Tuesday"].Booked)
}

func TestDashboardOccupancyScopedAndCached(t *testing.T) {
	svc, stub, _ := newDashboardForTest(sampleSnapshot())
	query := dto.OccupancyQuery{SemesterID: "sem-1", ProgramIDs: []string{" CSE", "CSE"}}

	first, hit, err := svc.Occupancy(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, []string{"CSE"}, first.ProgramIDs)
	assert.Equal(t, []string{"Sunday", "Monday"}, first.Days)
	assert.Equal(t, "50.0%", first.Total.Percentage)

	second, hit, err := svc.Occupancy(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.Total, second.Total)
	assert.Equal(t, 1, stub.calls)
}

func TestDashboardOccupancyInvalidateSemester(t *testing.T) {
	svc, stub, store := newDashboardForTest(sampleSnapshot())
	query := dto.OccupancyQuery{SemesterID: "sem-1"}

	_, _, err := svc.Occupancy(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, store.items, 1)

	svc.InvalidateSemester(context.Background(), "sem-2")
	assert.Len(t, store.items, 1)

	svc.InvalidateSemester(context.Background(), "sem-1")
	assert.Empty(t, store.items)

	_, hit, err := svc.Occupancy(context.Background(), query)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, stub.calls)
}

func TestDashboardOccupancyAppliesDateOverrides(t *testing.T) {
	snap := sampleSnapshot()
	snap.Overrides = models.ScheduleOverrides{"301": {sampleSlot: {"2024-01-07": nil}}}
	svc, stub, _ := newDashboardForTest(snap)

	resp, _, err := svc.Occupancy(context.Background(), dto.OccupancyQuery{SemesterID: "sem-1", Date: "2024-01-07"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-07", stub.lastOpts.Overrides)
	assert.True(t, stub.lastOpts.Rooms)
	assert.Equal(t, 0, resp.Total.Booked)

	weekly, _, err := svc.Occupancy(context.Background(), dto.OccupancyQuery{SemesterID: "sem-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, weekly.Total.Booked)
	assert.NotNil(t, snap.Routine.Cell("Sunday", "301", sampleSlot))
}

func TestDashboardOccupancyValidation(t *testing.T) {
	svc, _, _ := newDashboardForTest(sampleSnapshot())

	_, _, err := svc.Occupancy(context.Background(), dto.OccupancyQuery{})
	require.Error(t, err)

	_, _, err = svc.Occupancy(context.Background(), dto.OccupancyQuery{SemesterID: "sem-1", Date: "07/01/2024"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestDashboardOccupancyLoadError(t *testing.T) {
	svc, stub, _ := newDashboardForTest(nil)
	stub.err = errors.New("db down")

	_, _, err := svc.Occupancy(context.Background(), dto.OccupancyQuery{SemesterID: "sem-1"})
	require.Error(t, err)
}

func TestDashboardCourseLoad(t *testing.T) {
	svc, stub, _ := newDashboardForTest(sampleSnapshot())

	resp, pagination, err := svc.CourseLoad(context.Background(), dto.CourseLoadQuery{SemesterID: "sem-1", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.True(t, stub.lastOpts.Sections)
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Equal(t, 4.5, resp.TotalCredit)
	require.Len(t, resp.Courses, 2)

	root := resp.Courses[0]
	assert.Equal(t, "s-a", root.SectionID)
	assert.Equal(t, routine.Stats{Students: 40, CIW: 1, CR: 4, CAT: 2}, root.Stats)
	assert.Equal(t, routine.Stats{Students: 70, CIW: 1, CR: 4, CAT: 3}, root.TreeStats)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "s-b", root.Children[0].SectionID)
	assert.Empty(t, resp.IntegrityErrors)
}

func TestDashboardCourseLoadFiltersByProgramAndCriteria(t *testing.T) {
	svc, _, _ := newDashboardForTest(sampleSnapshot())

	resp, _, err := svc.CourseLoad(context.Background(), dto.CourseLoadQuery{SemesterID: "sem-1", ProgramID: "EEE"})
	require.NoError(t, err)
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, 1.5, resp.TotalCredit)

	resp, _, err = svc.CourseLoad(context.Background(), dto.CourseLoadQuery{
		SemesterID: "sem-1",
		Criteria:   routine.Criteria{Ranges: map[string]routine.Range{"credit": {Min: "2"}}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, "CSE101", resp.Courses[0].CourseCode)
}

func TestDashboardCourseLoadReportsCycles(t *testing.T) {
	snap := sampleSnapshot()
	snap.Sections = append(snap.Sections,
		models.Enrollment{SectionID: "x", CourseCode: "MAT101", Section: "A", PID: "CSE", Credit: 3, MergedWithSectionID: strPtr("y")},
		models.Enrollment{SectionID: "y", CourseCode: "MAT101", Section: "B", PID: "CSE", Credit: 3, MergedWithSectionID: strPtr("x")},
	)
	svc, _, _ := newDashboardForTest(snap)

	resp, _, err := svc.CourseLoad(context.Background(), dto.CourseLoadQuery{SemesterID: "sem-1"})
	require.NoError(t, err)
	require.Len(t, resp.IntegrityErrors, 1)
	assert.ElementsMatch(t, []string{"x", "y"}, resp.IntegrityErrors[0].SectionIDs)
	assert.Len(t, resp.Courses, 3)
	assert.Equal(t, 7.5, resp.TotalCredit)
}

func TestDashboardTeacherLoad(t *testing.T) {
	svc, _, _ := newDashboardForTest(sampleSnapshot())

	loads, pagination, err := svc.TeacherLoad(context.Background(), dto.TeacherLoadQuery{SemesterID: "sem-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, pagination.TotalCount)
	require.Len(t, loads, 2)

	loads, _, err = svc.TeacherLoad(context.Background(), dto.TeacherLoadQuery{
		SemesterID: "sem-1",
		Criteria:   routine.Criteria{Categories: map[string][]string{"designation": {"Professor"}}},
	})
	require.NoError(t, err)
	require.Len(t, loads, 1)
	assert.Equal(t, "t-2", loads[0].TeacherID)
	assert.Equal(t, 1.5, loads[0].CreditLoad)

	loads, _, err = svc.TeacherLoad(context.Background(), dto.TeacherLoadQuery{SemesterID: "sem-1", ProgramID: "CSE"})
	require.NoError(t, err)
	require.Len(t, loads, 1)
	assert.Equal(t, 1, loads[0].CourseCount)
}

func TestDashboardOccurrences(t *testing.T) {
	svc, _, _ := newDashboardForTest(sampleSnapshot())

	resp, err := svc.Occurrences("mon", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "Monday", resp.Day)
	assert.Equal(t, 5, resp.Count)

	resp, err = svc.Occurrences("Monday", "2024-13-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)

	_, err = svc.Occurrences("Funday", "2024-01-01", "2024-01-31")
	require.Error(t, err)
}
