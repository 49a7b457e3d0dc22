package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/models"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type semesterReader interface {
	FindByID(ctx context.Context, id string) (*models.SemesterConfig, error)
}

type semesterRoomLister interface {
	ListBySemester(ctx context.Context, semesterID string) ([]models.Room, error)
}

type programCatalog interface {
	ListAll(ctx context.Context) ([]models.Program, error)
}

type sectionLister interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
}

type routineLister interface {
	ListBySemester(ctx context.Context, semesterID string) ([]models.RoutineEntry, error)
}

type overrideLister interface {
	ListBySemester(ctx context.Context, semesterID, date string) ([]models.OverrideEntry, error)
}

type defaultSlotLister interface {
	ListDefaults(ctx context.Context) ([]models.TimeSlot, error)
}

// Snapshot is a consistent read of everything the aggregation engine needs for a semester.
type Snapshot struct {
	Semester     models.SemesterConfig
	Rooms        []models.Room
	Programs     []models.Program
	Sections     []models.Enrollment
	Routine      models.FullRoutineData
	Overrides    models.ScheduleOverrides
	DefaultSlots []models.TimeSlot
}

// SnapshotOptions selects the optional parts of a snapshot.
type SnapshotOptions struct {
	Sections  bool
	Rooms     bool
	Overrides string
}

// SnapshotLoaderParams groups constructor dependencies.
type SnapshotLoaderParams struct {
	Semesters semesterReader
	Rooms     semesterRoomLister
	Programs  programCatalog
	Sections  sectionLister
	Routine   routineLister
	Overrides overrideLister
	TimeSlots defaultSlotLister
	Metrics   *MetricsService
	Logger    *zap.Logger
}

// SnapshotLoader reads semester snapshots from the repositories.
type SnapshotLoader struct {
	semesters semesterReader
	rooms     semesterRoomLister
	programs  programCatalog
	sections  sectionLister
	routine   routineLister
	overrides overrideLister
	timeSlots defaultSlotLister
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewSnapshotLoader constructs a SnapshotLoader.
func NewSnapshotLoader(params SnapshotLoaderParams) *SnapshotLoader {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotLoader{
		semesters: params.Semesters,
		rooms:     params.Rooms,
		programs:  params.Programs,
		sections:  params.Sections,
		routine:   params.Routine,
		overrides: params.Overrides,
		timeSlots: params.TimeSlots,
		metrics:   params.Metrics,
		logger:    logger,
	}
}

// Load reads the semester calendar, programs, routine and default slots plus
// the parts requested in opts. A semester without a stored calendar yields an
// empty configuration.
func (l *SnapshotLoader) Load(ctx context.Context, semesterID string, opts SnapshotOptions) (*Snapshot, error) {
	if semesterID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	start := time.Now()
	defer func() { l.metrics.ObserveDBQuery("snapshot", time.Since(start)) }()

	snap := &Snapshot{Semester: models.SemesterConfig{SemesterID: semesterID}}

	semester, err := l.semesters.FindByID(ctx, semesterID)
	switch {
	case err == nil:
		snap.Semester = *semester
	case errors.Is(err, sql.ErrNoRows):
		l.logger.Debug("semester calendar not configured", zap.String("semester_id", semesterID))
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}

	if snap.Programs, err = l.programs.ListAll(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load programs")
	}

	entries, err := l.routine.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine")
	}
	snap.Routine = models.BuildRoutine(entries)

	if snap.DefaultSlots, err = l.timeSlots.ListDefaults(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}

	if opts.Rooms {
		if snap.Rooms, err = l.rooms.ListBySemester(ctx, semesterID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
		}
	}

	if opts.Sections {
		if snap.Sections, err = l.sections.List(ctx, models.EnrollmentFilter{SemesterID: semesterID}); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sections")
		}
	}

	if opts.Overrides != "" {
		overrides, err := l.overrides.ListBySemester(ctx, semesterID, opts.Overrides)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overrides")
		}
		snap.Overrides = models.BuildOverrides(overrides)
	}

	return snap, nil
}
