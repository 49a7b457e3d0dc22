package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// RoutineRepository persists the weekly routine grid one cell per row.
type RoutineRepository struct {
	db *sqlx.DB
}

// NewRoutineRepository constructs a RoutineRepository.
func NewRoutineRepository(db *sqlx.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

// ListBySemester returns every occupied cell of a semester.
func (r *RoutineRepository) ListBySemester(ctx context.Context, semesterID string) ([]models.RoutineEntry, error) {
	const query = `SELECT id, semester_id, day, room_number, slot, course_code, section, p_id, teacher, level_term, color, updated_at
FROM routine_entries WHERE semester_id = $1 ORDER BY day, room_number, slot`
	var entries []models.RoutineEntry
	if err := r.db.SelectContext(ctx, &entries, query, semesterID); err != nil {
		return nil, fmt.Errorf("list routine entries: %w", err)
	}
	return entries, nil
}

// UpsertCell stores the class of one day/room/slot cell, replacing any previous class.
func (r *RoutineRepository) UpsertCell(ctx context.Context, entry *models.RoutineEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.UpdatedAt = time.Now().UTC()

	const query = `INSERT INTO routine_entries (id, semester_id, day, room_number, slot, course_code, section, p_id, teacher, level_term, color, updated_at)
VALUES (:id, :semester_id, :day, :room_number, :slot, :course_code, :section, :p_id, :teacher, :level_term, :color, :updated_at)
ON CONFLICT (semester_id, day, room_number, slot) DO UPDATE SET course_code = EXCLUDED.course_code, section = EXCLUDED.section,
p_id = EXCLUDED.p_id, teacher = EXCLUDED.teacher, level_term = EXCLUDED.level_term, color = EXCLUDED.color, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("upsert routine cell: %w", err)
	}
	return nil
}

// DeleteCell frees one cell. It reports whether a class was removed.
func (r *RoutineRepository) DeleteCell(ctx context.Context, semesterID, day, roomNumber, slot string) (bool, error) {
	const query = `DELETE FROM routine_entries WHERE semester_id = $1 AND day = $2 AND room_number = $3 AND slot = $4`
	res, err := r.db.ExecContext(ctx, query, semesterID, day, roomNumber, slot)
	if err != nil {
		return false, fmt.Errorf("delete routine cell: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete routine cell rows: %w", err)
	}
	return affected > 0, nil
}
