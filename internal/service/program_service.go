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

type programRepository interface {
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, int, error)
	FindByID(ctx context.Context, id string) (*models.Program, error)
	ExistsByPID(ctx context.Context, pid, excludeID string) (bool, error)
	Create(ctx context.Context, program *models.Program) error
	Update(ctx context.Context, program *models.Program) error
}

// ProgramRequest is the payload for creating or replacing a program.
type ProgramRequest struct {
	PID                  string            `json:"pId" validate:"required,max=32"`
	ShortName            string            `json:"shortName" validate:"required,max=64"`
	FullName             string            `json:"fullName" validate:"omitempty,max=255"`
	SemesterSystem       string            `json:"semesterSystem" validate:"required,max=32"`
	ActiveDays           []string          `json:"activeDays" validate:"omitempty,dive,weekday"`
	ProgramSpecificSlots []models.TimeSlot `json:"programSpecificSlots" validate:"omitempty,dive"`
}

// ProgramService manages academic programs.
type ProgramService struct {
	repo        programRepository
	invalidator occupancyInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProgramService constructs a ProgramService.
func NewProgramService(repo programRepository, invalidator occupancyInvalidator, validate *validator.Validate, logger *zap.Logger) *ProgramService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns programs plus pagination data.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, *models.Pagination, error) {
	programs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return programs, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a program by id.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// Create registers a program.
func (s *ProgramService) Create(ctx context.Context, req ProgramRequest) (*models.Program, error) {
	program := &models.Program{}
	if err := s.apply(ctx, program, req, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create program")
	}
	s.invalidate(ctx)
	return program, nil
}

// Update replaces a program's fields. Active days and slots affect occupancy
// in every semester, so all cached grids are dropped.
func (s *ProgramService) Update(ctx context.Context, id string, req ProgramRequest) (*models.Program, error) {
	program, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, program, req, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update program")
	}
	s.invalidate(ctx)
	return program, nil
}

func (s *ProgramService) apply(ctx context.Context, program *models.Program, req ProgramRequest, excludeID string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program payload")
	}
	if err := validateSlots(req.ProgramSpecificSlots); err != nil {
		return err
	}

	pid := strings.TrimSpace(req.PID)
	exists, err := s.repo.ExistsByPID(ctx, pid, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check program uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "pId already used")
	}

	program.PID = pid
	program.ShortName = strings.TrimSpace(req.ShortName)
	program.FullName = strings.TrimSpace(req.FullName)
	program.SemesterSystem = strings.TrimSpace(req.SemesterSystem)
	program.ActiveDays = normalizeDays(req.ActiveDays)
	program.ProgramSpecificSlots = req.ProgramSpecificSlots
	return nil
}

func (s *ProgramService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateSemester(ctx, "")
	}
}

// normalizeDays canonicalises, dedupes and orders day names in week order.
func normalizeDays(days []string) []string {
	set := make(map[string]struct{}, len(days))
	for _, day := range days {
		if normalized := models.NormalizeDay(day); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	ordered := make([]string, 0, len(set))
	for _, day := range models.Weekdays {
		if _, ok := set[day]; ok {
			ordered = append(ordered, day)
		}
	}
	return ordered
}
