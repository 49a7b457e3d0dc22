package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

const roomColumns = "id, room_number, building_id, floor_id, category_id, type_id, capacity, semester_id, assigned_to_p_id, shared_with_p_ids, room_specific_slots, created_at, updated_at"

// RoomRepository manages persistence for semester rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns rooms matching filters along with total count.
func (r *RoomRepository) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	base, args := roomConditions(filter)

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf("SELECT %s %s ORDER BY room_number ASC LIMIT %d OFFSET %d", roomColumns, base, size, (page-1)*size)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}
	return rooms, total, nil
}

// ListBySemester returns every room of a semester without pagination.
func (r *RoomRepository) ListBySemester(ctx context.Context, semesterID string) ([]models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE semester_id = $1 ORDER BY room_number ASC", roomColumns)
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, semesterID); err != nil {
		return nil, fmt.Errorf("list semester rooms: %w", err)
	}
	return rooms, nil
}

func roomConditions(filter models.RoomFilter) (string, []interface{}) {
	base := "FROM rooms WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SemesterID != "" {
		conditions = append(conditions, fmt.Sprintf("semester_id = $%d", len(args)+1))
		args = append(args, filter.SemesterID)
	}
	if filter.BuildingID != "" {
		conditions = append(conditions, fmt.Sprintf("building_id = $%d", len(args)+1))
		args = append(args, filter.BuildingID)
	}
	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("(assigned_to_p_id = $%d OR $%d = ANY(shared_with_p_ids))", len(args)+1, len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	return base, args
}

// FindByID fetches a room by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	query := fmt.Sprintf("SELECT %s FROM rooms WHERE id = $1", roomColumns)
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// ExistsByRoomNumber checks if another room of the semester uses the same number.
func (r *RoomRepository) ExistsByRoomNumber(ctx context.Context, semesterID, roomNumber, excludeID string) (bool, error) {
	query := "SELECT 1 FROM rooms WHERE semester_id = $1 AND LOWER(room_number) = LOWER($2)"
	args := []interface{}{semesterID, roomNumber}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room number: %w", err)
	}
	return true, nil
}

// Create inserts a new room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, room_number, building_id, floor_id, category_id, type_id, capacity, semester_id, assigned_to_p_id, shared_with_p_ids, room_specific_slots, created_at, updated_at)
		VALUES (:id, :room_number, :building_id, :floor_id, :category_id, :type_id, :capacity, :semester_id, :assigned_to_p_id, :shared_with_p_ids, :room_specific_slots, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies an existing room.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET room_number = :room_number, building_id = :building_id, floor_id = :floor_id, category_id = :category_id,
		type_id = :type_id, capacity = :capacity, assigned_to_p_id = :assigned_to_p_id, shared_with_p_ids = :shared_with_p_ids,
		room_specific_slots = :room_specific_slots, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}
