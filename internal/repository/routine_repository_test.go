package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

func TestRoutineRepositoryListBySemester(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	rows := sqlmock.NewRows([]string{"id", "semester_id", "day", "room_number", "slot", "course_code", "section", "p_id", "teacher", "level_term", "color", "updated_at"}).
		AddRow("e1", "sem-1", "Monday", "301", "08:30 - 10:00", "CSE101", "A", "CSE", "RH", "L1T1", "#fff", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM routine_entries WHERE semester_id = $1")).
		WithArgs("sem-1").
		WillReturnRows(rows)

	entries, err := repo.ListBySemester(context.Background(), "sem-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	routine := models.BuildRoutine(entries)
	detail := routine.Cell("Monday", "301", "08:30 - 10:00")
	require.NotNil(t, detail)
	assert.Equal(t, "CSE101", detail.CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryUpsertCell(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (semester_id, day, room_number, slot) DO UPDATE")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.RoutineEntry{SemesterID: "sem-1", Day: "Monday", RoomNumber: "301", Slot: "08:30 - 10:00",
		ClassDetail: models.ClassDetail{CourseCode: "CSE101", Section: "A", PID: "CSE"}}
	require.NoError(t, repo.UpsertCell(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryDeleteCell(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	query := regexp.QuoteMeta("DELETE FROM routine_entries WHERE semester_id = $1 AND day = $2 AND room_number = $3 AND slot = $4")
	mock.ExpectExec(query).WithArgs("sem-1", "Monday", "301", "08:30 - 10:00").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("sem-1", "Monday", "302", "08:30 - 10:00").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(query).WithArgs("sem-1", "Monday", "303", "08:30 - 10:00").WillReturnError(errors.New("boom"))

	removed, err := repo.DeleteCell(context.Background(), "sem-1", "Monday", "301", "08:30 - 10:00")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.DeleteCell(context.Background(), "sem-1", "Monday", "302", "08:30 - 10:00")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = repo.DeleteCell(context.Background(), "sem-1", "Monday", "303", "08:30 - 10:00")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
