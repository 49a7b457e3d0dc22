package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// OverrideRepository persists date-specific routine exceptions.
type OverrideRepository struct {
	db *sqlx.DB
}

// NewOverrideRepository constructs an OverrideRepository.
func NewOverrideRepository(db *sqlx.DB) *OverrideRepository {
	return &OverrideRepository{db: db}
}

// ListBySemester returns overrides of a semester, narrowed to one date when date is set.
func (r *OverrideRepository) ListBySemester(ctx context.Context, semesterID, date string) ([]models.OverrideEntry, error) {
	query := `SELECT id, semester_id, room_number, slot, to_char(date, 'YYYY-MM-DD') AS date, course_code, section, p_id, teacher, level_term, color, updated_at
FROM schedule_overrides WHERE semester_id = $1`
	args := []interface{}{semesterID}
	if date != "" {
		query += " AND date = $2"
		args = append(args, date)
	}
	query += " ORDER BY date, room_number, slot"

	var entries []models.OverrideEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule overrides: %w", err)
	}
	return entries, nil
}

// UpsertBatch stores overrides atomically. A nil course code records a freed cell.
func (r *OverrideRepository) UpsertBatch(ctx context.Context, entries []models.OverrideEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin override tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO schedule_overrides (id, semester_id, room_number, slot, date, course_code, section, p_id, teacher, level_term, color, updated_at)
VALUES (:id, :semester_id, :room_number, :slot, :date, :course_code, :section, :p_id, :teacher, :level_term, :color, :updated_at)
ON CONFLICT (semester_id, room_number, slot, date) DO UPDATE SET course_code = EXCLUDED.course_code, section = EXCLUDED.section,
p_id = EXCLUDED.p_id, teacher = EXCLUDED.teacher, level_term = EXCLUDED.level_term, color = EXCLUDED.color, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].UpdatedAt = now
		if _, err = tx.NamedExecContext(ctx, query, &entries[i]); err != nil {
			return fmt.Errorf("upsert schedule override: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit override tx: %w", err)
	}
	return nil
}
