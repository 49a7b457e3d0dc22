package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

var roomRowColumns = []string{"id", "room_number", "building_id", "floor_id", "category_id", "type_id", "capacity", "semester_id", "assigned_to_p_id", "shared_with_p_ids", "room_specific_slots", "created_at", "updated_at"}

func TestRoomRepositoryListByProgram(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows(roomRowColumns).
		AddRow("r1", "301", "b1", "f3", "c1", "t1", 40, "sem-1", "CSE", "{EEE}", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + roomColumns + " FROM rooms WHERE 1=1 AND semester_id = $1 AND (assigned_to_p_id = $2 OR $2 = ANY(shared_with_p_ids)) ORDER BY room_number ASC LIMIT 20 OFFSET 0")).
		WithArgs("sem-1", "EEE").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms WHERE 1=1 AND semester_id = $1 AND (assigned_to_p_id = $2 OR $2 = ANY(shared_with_p_ids))")).
		WithArgs("sem-1", "EEE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rooms, total, err := repo.List(context.Background(), models.RoomFilter{SemesterID: "sem-1", ProgramID: "EEE"})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 1, total)
	assert.True(t, rooms[0].ServesProgram("EEE"))
	assert.Empty(t, rooms[0].RoomSpecificSlots)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryExistsByRoomNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM rooms WHERE semester_id = $1 AND LOWER(room_number) = LOWER($2) LIMIT 1")).
		WithArgs("sem-1", "301").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByRoomNumber(context.Background(), "sem-1", "301", "")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryCreateAndUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	room := &models.Room{RoomNumber: "301", SemesterID: "sem-1", AssignedToPID: "CSE", SharedWithPIDs: pq.StringArray{"EEE"}, Capacity: 40}
	mock.ExpectExec("INSERT INTO rooms").WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(context.Background(), room))
	assert.NotEmpty(t, room.ID)

	mock.ExpectExec("UPDATE rooms SET room_number").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Update(context.Background(), room))
	assert.NoError(t, mock.ExpectationsWereMet())
}
