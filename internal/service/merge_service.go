package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type sectionRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
	FindByID(ctx context.Context, sectionID string) (*models.Enrollment, error)
	UpdateMergeParent(ctx context.Context, sectionID string, parentID *string) error
}

// MergeRequest sets the merge parent of a section. An empty parent unmerges it.
type MergeRequest struct {
	ParentSectionID string `json:"parentSectionId"`
}

// MergeService edits section merge links while keeping the merge graph acyclic.
type MergeService struct {
	sections sectionRepository
	logger   *zap.Logger
}

// NewMergeService constructs a MergeService.
func NewMergeService(sections sectionRepository, logger *zap.Logger) *MergeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MergeService{sections: sections, logger: logger}
}

// Merge attaches sectionID under the requested parent, or detaches it when the
// parent is empty. Links that would close a cycle are rejected.
func (s *MergeService) Merge(ctx context.Context, sectionID string, req MergeRequest) (*models.Enrollment, error) {
	section, err := s.find(ctx, sectionID, "section not found")
	if err != nil {
		return nil, err
	}

	parentID := strings.TrimSpace(req.ParentSectionID)
	if parentID == "" {
		if err := s.sections.UpdateMergeParent(ctx, sectionID, nil); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unmerge section")
		}
		section.MergedWithSectionID = nil
		return section, nil
	}

	parent, err := s.find(ctx, parentID, "parent section not found")
	if err != nil {
		return nil, err
	}
	if parent.SemesterID != section.SemesterID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sections belong to different semesters")
	}

	siblings, err := s.sections.List(ctx, models.EnrollmentFilter{SemesterID: section.SemesterID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
	}
	if routine.WouldCycle(siblings, sectionID, parentID) {
		s.logger.Warn("merge rejected: cycle",
			zap.String("section_id", sectionID),
			zap.String("parent_section_id", parentID),
		)
		return nil, appErrors.Clone(appErrors.ErrDataIntegrity, "merge would create a cycle")
	}

	if err := s.sections.UpdateMergeParent(ctx, sectionID, &parentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to merge section")
	}
	section.MergedWithSectionID = &parentID
	return section, nil
}

func (s *MergeService) find(ctx context.Context, id, notFound string) (*models.Enrollment, error) {
	section, err := s.sections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, notFound)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}
	return section, nil
}
