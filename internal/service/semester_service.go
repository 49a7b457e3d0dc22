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

type semesterRepository interface {
	FindByID(ctx context.Context, id string) (*models.SemesterConfig, error)
	Upsert(ctx context.Context, semester *models.SemesterConfig) error
}

// DateRangeRequest is one semester system's inclusive date range.
type DateRangeRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// SemesterRequest replaces a semester calendar.
type SemesterRequest struct {
	Name        string                      `json:"name" validate:"required,max=128"`
	TypeConfigs map[string]DateRangeRequest `json:"typeConfigs" validate:"omitempty,dive,keys,required,endkeys"`
}

// SemesterService manages semester calendars.
type SemesterService struct {
	repo      semesterRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSemesterService constructs a SemesterService.
func NewSemesterService(repo semesterRepository, validate *validator.Validate, logger *zap.Logger) *SemesterService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemesterService{repo: repo, validator: validate, logger: logger}
}

// Get returns a semester calendar.
func (s *SemesterService) Get(ctx context.Context, id string) (*models.SemesterConfig, error) {
	semester, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "semester not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	return semester, nil
}

// Upsert creates or replaces a semester calendar.
func (s *SemesterService) Upsert(ctx context.Context, id string, req SemesterRequest) (*models.SemesterConfig, error) {
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester payload")
	}

	configs := make(models.TypeConfigs, len(req.TypeConfigs))
	for system, dates := range req.TypeConfigs {
		if dates.EndDate < dates.StartDate {
			return nil, appErrors.Clone(appErrors.ErrValidation, "endDate precedes startDate for "+system)
		}
		configs[strings.TrimSpace(system)] = models.DateRange{StartDate: dates.StartDate, EndDate: dates.EndDate}
	}

	semester := &models.SemesterConfig{
		SemesterID:  id,
		Name:        strings.TrimSpace(req.Name),
		TypeConfigs: configs,
	}
	if err := s.repo.Upsert(ctx, semester); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save semester")
	}
	return semester, nil
}
