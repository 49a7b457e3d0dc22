package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// TimeSlotRepository stores the system default slot list.
type TimeSlotRepository struct {
	db *sqlx.DB
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB) *TimeSlotRepository {
	return &TimeSlotRepository{db: db}
}

// ListDefaults returns the default slots.
func (r *TimeSlotRepository) ListDefaults(ctx context.Context) ([]models.TimeSlot, error) {
	const query = `SELECT id, type, start_time, end_time FROM time_slots ORDER BY type DESC, start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// ReplaceDefaults swaps the whole default slot list in one transaction.
func (r *TimeSlotRepository) ReplaceDefaults(ctx context.Context, slots []models.TimeSlot) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin time slot tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM time_slots`); err != nil {
		return fmt.Errorf("clear time slots: %w", err)
	}
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		if _, err = tx.NamedExecContext(ctx, `INSERT INTO time_slots (id, type, start_time, end_time) VALUES (:id, :type, :start_time, :end_time)`, &slots[i]); err != nil {
			return fmt.Errorf("insert time slot: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit time slot tx: %w", err)
	}
	return nil
}
