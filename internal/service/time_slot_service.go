package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type timeSlotRepository interface {
	ListDefaults(ctx context.Context) ([]models.TimeSlot, error)
	ReplaceDefaults(ctx context.Context, slots []models.TimeSlot) error
}

// TimeSlotsRequest replaces the system default slots.
type TimeSlotsRequest struct {
	Slots []models.TimeSlot `json:"slots" validate:"required,dive"`
}

// TimeSlotService manages the system default slots.
type TimeSlotService struct {
	repo        timeSlotRepository
	invalidator occupancyInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTimeSlotService constructs a TimeSlotService.
func NewTimeSlotService(repo timeSlotRepository, invalidator occupancyInvalidator, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{repo: repo, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns the default slots, theory first then by start time.
func (s *TimeSlotService) List(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.repo.ListDefaults(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	return routine.SortSlots(slots), nil
}

// Replace swaps the full default slot set.
func (s *TimeSlotService) Replace(ctx context.Context, req TimeSlotsRequest) ([]models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}
	if err := validateSlots(req.Slots); err != nil {
		return nil, err
	}
	slots := routine.SortSlots(req.Slots)
	if err := s.repo.ReplaceDefaults(ctx, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save time slots")
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateSemester(ctx, "")
	}
	s.logger.Info("default time slots replaced", zap.Int("count", len(slots)))
	return slots, nil
}
