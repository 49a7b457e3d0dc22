package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var programRowColumns = []string{"id", "p_id", "short_name", "full_name", "semester_system", "active_days", "program_specific_slots", "created_at", "updated_at"}

func TestProgramRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := sqlmock.NewRows(programRowColumns).
		AddRow("p1", "CSE", "CSE", "Computer Science", "tri", "{Saturday,Monday}", `[{"id":"s1","type":"Theory","startTime":"08:30","endTime":"10:00"}]`, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + programColumns + " FROM programs WHERE 1=1 AND semester_system = $1 ORDER BY short_name ASC LIMIT 20 OFFSET 0")).
		WithArgs("tri").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM programs WHERE 1=1 AND semester_system = $1")).
		WithArgs("tri").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	programs, total, err := repo.List(context.Background(), models.ProgramFilter{SemesterSystem: "tri"})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, pq.StringArray{"Saturday", "Monday"}, programs[0].ActiveDays)
	require.Len(t, programs[0].ProgramSpecificSlots, 1)
	assert.Equal(t, "08:30 - 10:00", programs[0].ProgramSpecificSlots[0].String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryCreateAndExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectExec("INSERT INTO programs").
		WithArgs(sqlmock.AnyArg(), "CSE", "CSE", "Computer Science", "tri", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	program := &models.Program{PID: "CSE", ShortName: "CSE", FullName: "Computer Science", SemesterSystem: "tri", ActiveDays: pq.StringArray{"Monday"}}
	require.NoError(t, repo.Create(context.Background(), program))
	assert.NotEmpty(t, program.ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM programs WHERE p_id = $1 AND id <> $2 LIMIT 1")).
		WithArgs("CSE", program.ID).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	exists, err := repo.ExistsByPID(context.Background(), "CSE", program.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
