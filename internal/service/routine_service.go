package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type routineRepository interface {
	ListBySemester(ctx context.Context, semesterID string) ([]models.RoutineEntry, error)
	UpsertCell(ctx context.Context, entry *models.RoutineEntry) error
	DeleteCell(ctx context.Context, semesterID, day, roomNumber, slot string) (bool, error)
}

type overrideRepository interface {
	ListBySemester(ctx context.Context, semesterID, date string) ([]models.OverrideEntry, error)
	UpsertBatch(ctx context.Context, entries []models.OverrideEntry) error
}

// RoutineCellRequest identifies one weekly routine cell and, for upserts, its class.
type RoutineCellRequest struct {
	Day        string              `json:"day" validate:"required,weekday"`
	RoomNumber string              `json:"roomNumber" validate:"required"`
	Slot       string              `json:"slot" validate:"required,slot"`
	Class      *models.ClassDetail `json:"class" validate:"omitempty"`
}

// OverrideRequest sets the class of a cell on one date. A nil class frees the cell.
type OverrideRequest struct {
	RoomNumber string              `json:"roomNumber" validate:"required"`
	Slot       string              `json:"slot" validate:"required,slot"`
	Date       string              `json:"date" validate:"required,datetime=2006-01-02"`
	Class      *models.ClassDetail `json:"class" validate:"omitempty"`
}

// OverridesRequest is a batch of date-specific overrides.
type OverridesRequest struct {
	Overrides []OverrideRequest `json:"overrides" validate:"required,min=1,dive"`
}

// RoutineService reads and edits the weekly routine grid and its overrides.
type RoutineService struct {
	routine     routineRepository
	overrides   overrideRepository
	invalidator occupancyInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewRoutineService constructs a RoutineService.
func NewRoutineService(routineRepo routineRepository, overrides overrideRepository, invalidator occupancyInvalidator, validate *validator.Validate, logger *zap.Logger) *RoutineService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineService{routine: routineRepo, overrides: overrides, invalidator: invalidator, validator: validate, logger: logger}
}

// Grid returns the routine of a semester. With a date, the grid in effect on
// that date is returned.
func (s *RoutineService) Grid(ctx context.Context, semesterID, date string) (models.FullRoutineData, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	entries, err := s.routine.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine")
	}
	grid := models.BuildRoutine(entries)
	if date == "" {
		return grid, nil
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	rows, err := s.overrides.ListBySemester(ctx, semesterID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overrides")
	}
	return routine.ApplyOverrides(grid, models.BuildOverrides(rows), date), nil
}

// UpsertCell places a class into a weekly cell, replacing any previous class.
func (s *RoutineService) UpsertCell(ctx context.Context, semesterID string, req RoutineCellRequest) (*models.RoutineEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid routine cell payload")
	}
	if req.Class == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is required")
	}
	entry := &models.RoutineEntry{
		SemesterID:  semesterID,
		Day:         models.NormalizeDay(req.Day),
		RoomNumber:  strings.TrimSpace(req.RoomNumber),
		Slot:        strings.TrimSpace(req.Slot),
		ClassDetail: *req.Class,
	}
	if err := s.routine.UpsertCell(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save routine cell")
	}
	s.invalidate(ctx, semesterID)
	return entry, nil
}

// DeleteCell frees a weekly cell.
func (s *RoutineService) DeleteCell(ctx context.Context, semesterID string, req RoutineCellRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid routine cell payload")
	}
	deleted, err := s.routine.DeleteCell(ctx, semesterID, models.NormalizeDay(req.Day), strings.TrimSpace(req.RoomNumber), strings.TrimSpace(req.Slot))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete routine cell")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "routine cell is already free")
	}
	s.invalidate(ctx, semesterID)
	return nil
}

// UpsertOverrides stores a batch of date-specific overrides atomically.
func (s *RoutineService) UpsertOverrides(ctx context.Context, semesterID string, req OverridesRequest) ([]models.OverrideEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid overrides payload")
	}
	entries := make([]models.OverrideEntry, 0, len(req.Overrides))
	for _, item := range req.Overrides {
		entry := models.OverrideEntry{
			SemesterID: semesterID,
			RoomNumber: strings.TrimSpace(item.RoomNumber),
			Slot:       strings.TrimSpace(item.Slot),
			Date:       item.Date,
		}
		if item.Class != nil {
			detail := *item.Class
			entry.CourseCode = &detail.CourseCode
			entry.Section = &detail.Section
			entry.PID = &detail.PID
			entry.Teacher = &detail.Teacher
			entry.LevelTerm = &detail.LevelTerm
			entry.Color = &detail.Color
		}
		entries = append(entries, entry)
	}
	if err := s.overrides.UpsertBatch(ctx, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save overrides")
	}
	s.invalidate(ctx, semesterID)
	s.logger.Info("schedule overrides saved", zap.String("semester_id", semesterID), zap.Int("count", len(entries)))
	return entries, nil
}

func (s *RoutineService) invalidate(ctx context.Context, semesterID string) {
	if s.invalidator != nil {
		s.invalidator.InvalidateSemester(ctx, semesterID)
	}
}
