package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

func TestSemesterRepositoryFindAndUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, type_configs, updated_at FROM semesters WHERE id = $1")).
		WithArgs("sem-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type_configs", "updated_at"}).
			AddRow("sem-1", "Spring 2024", []byte(`{"tri":{"startDate":"2024-01-01","endDate":"2024-04-30"}}`), time.Now()))

	semester, err := repo.FindByID(context.Background(), "sem-1")
	require.NoError(t, err)
	dates, ok := semester.RangeFor("tri")
	require.True(t, ok)
	assert.Equal(t, "2024-04-30", dates.EndDate)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Upsert(context.Background(), &models.SemesterConfig{SemesterID: "sem-2", Name: "Fall"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryReplaceDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeSlotRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM time_slots")).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO time_slots").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO time_slots").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	slots := []models.TimeSlot{
		{Type: models.SlotTypeTheory, StartTime: "08:30", EndTime: "10:00"},
		{Type: models.SlotTypeLab, StartTime: "14:00", EndTime: "16:00"},
	}
	require.NoError(t, repo.ReplaceDefaults(context.Background(), slots))
	assert.NotEmpty(t, slots[1].ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, type, start_time, end_time FROM time_slots")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "start_time", "end_time"}).AddRow("s1", "Theory", "08:30", "10:00"))
	defaults, err := repo.ListDefaults(context.Background())
	require.NoError(t, err)
	require.Len(t, defaults, 1)
	assert.Equal(t, models.SlotTypeTheory, defaults[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
