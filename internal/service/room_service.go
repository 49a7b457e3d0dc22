package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/models"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ExistsByRoomNumber(ctx context.Context, semesterID, roomNumber, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
}

type programExistence interface {
	ExistsByPID(ctx context.Context, pid, excludeID string) (bool, error)
}

type occupancyInvalidator interface {
	InvalidateSemester(ctx context.Context, semesterID string)
}

// RoomRequest is the payload for creating or replacing a room.
type RoomRequest struct {
	RoomNumber        string            `json:"roomNumber" validate:"required,max=50"`
	BuildingID        string            `json:"buildingId" validate:"omitempty,max=64"`
	FloorID           string            `json:"floorId" validate:"omitempty,max=64"`
	CategoryID        string            `json:"categoryId" validate:"omitempty,max=64"`
	TypeID            string            `json:"typeId" validate:"omitempty,max=64"`
	Capacity          int               `json:"capacity" validate:"gte=0"`
	AssignedToPID     string            `json:"assignedToPId" validate:"required"`
	SharedWithPIDs    []string          `json:"sharedWithPIds" validate:"omitempty,dive,required"`
	RoomSpecificSlots []models.TimeSlot `json:"roomSpecificSlots" validate:"omitempty,dive"`
}

// RoomService manages semester rooms.
type RoomService struct {
	repo        roomRepository
	programs    programExistence
	invalidator occupancyInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepository, programs programExistence, invalidator occupancyInvalidator, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, programs: programs, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns rooms plus pagination data.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return rooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create adds a room to a semester.
func (s *RoomService) Create(ctx context.Context, semesterID string, req RoomRequest) (*models.Room, error) {
	if strings.TrimSpace(semesterID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	room := &models.Room{SemesterID: semesterID}
	if err := s.apply(ctx, room, req, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	s.invalidate(ctx, room.SemesterID)
	s.logger.Info("room created", zap.String("room_id", room.ID), zap.String("room_number", room.RoomNumber))
	return room, nil
}

// Update replaces the mutable fields of a room.
func (s *RoomService) Update(ctx context.Context, id string, req RoomRequest) (*models.Room, error) {
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, room, req, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	s.invalidate(ctx, room.SemesterID)
	return room, nil
}

func (s *RoomService) apply(ctx context.Context, room *models.Room, req RoomRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	assigned := strings.TrimSpace(req.AssignedToPID)
	shared := normalizeIDs(req.SharedWithPIDs)
	for _, pid := range shared {
		if pid == assigned {
			return appErrors.Clone(appErrors.ErrValidation, "sharedWithPIds must not contain assignedToPId")
		}
	}
	if err := validateSlots(req.RoomSpecificSlots); err != nil {
		return err
	}

	for _, pid := range append([]string{assigned}, shared...) {
		exists, err := s.programs.ExistsByPID(ctx, pid, "")
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check program")
		}
		if !exists {
			return appErrors.Clone(appErrors.ErrValidation, "unknown program "+pid)
		}
	}

	number := strings.TrimSpace(req.RoomNumber)
	exists, err := s.repo.ExistsByRoomNumber(ctx, room.SemesterID, number, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room number uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "room number already used in this semester")
	}

	room.RoomNumber = number
	room.BuildingID = strings.TrimSpace(req.BuildingID)
	room.FloorID = strings.TrimSpace(req.FloorID)
	room.CategoryID = strings.TrimSpace(req.CategoryID)
	room.TypeID = strings.TrimSpace(req.TypeID)
	room.Capacity = req.Capacity
	room.AssignedToPID = assigned
	room.SharedWithPIDs = shared
	room.RoomSpecificSlots = req.RoomSpecificSlots
	return nil
}

func (s *RoomService) invalidate(ctx context.Context, semesterID string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateSemester(ctx, semesterID)
	}
}

func validateSlots(slots []models.TimeSlot) error {
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if !slot.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "slot "+slot.String()+" must start before it ends")
		}
		if _, dup := seen[slot.Key()]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "duplicate slot "+slot.String())
		}
		seen[slot.Key()] = struct{}{}
	}
	return nil
}
