package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/dto"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

const occupancyCachePrefix = "dash:occupancy"

type snapshotSource interface {
	Load(ctx context.Context, semesterID string, opts SnapshotOptions) (*Snapshot, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL        time.Duration
	WeekStart       string
	DefaultPageSize int
	MaxPageSize     int
}

// DashboardService composes occupancy, course load and teacher load views.
type DashboardService struct {
	snapshots  snapshotSource
	calculator *routine.Calculator
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
	cfg        DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Snapshots  snapshotSource
	Calculator *routine.Calculator
	Cache      *CacheService
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if models.NormalizeDay(cfg.WeekStart) == "" {
		cfg.WeekStart = models.Weekdays[0]
	}
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = 200
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	calculator := params.Calculator
	if calculator == nil {
		calculator = routine.NewCalculator(logger)
	}
	return &DashboardService{
		snapshots:  params.Snapshots,
		calculator: calculator,
		cache:      params.Cache,
		metrics:    params.Metrics,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

// Occupancy returns the occupancy grid for the scoped programs and indicates
// whether it was served from cache. With a date, that day's overrides are
// applied to the weekly routine first.
func (s *DashboardService) Occupancy(ctx context.Context, query dto.OccupancyQuery) (*dto.OccupancyResponse, bool, error) {
	if query.SemesterID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "semesterId is required")
	}
	if query.Date != "" {
		if _, err := time.Parse("2006-01-02", query.Date); err != nil {
			return nil, false, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
		}
	}
	if query.Tab == "" {
		query.Tab = models.SlotTabAll
	}
	query.ProgramIDs = normalizeIDs(query.ProgramIDs)

	cacheKey := occupancyCacheKey(query)
	if cached, hit, err := s.tryOccupancyCache(ctx, cacheKey); err != nil {
		return nil, false, err
	} else if hit {
		return cached, true, nil
	}

	result, err := s.computeOccupancy(ctx, query)
	if err != nil {
		return nil, false, err
	}

	resp := buildOccupancyResponse(query, result)
	resp.GeneratedAt = s.now().UTC()
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

// OccupancyResult returns the uncached engine result. Used by exports.
func (s *DashboardService) OccupancyResult(ctx context.Context, query dto.OccupancyQuery) (routine.OccupancyResult, error) {
	if query.Tab == "" {
		query.Tab = models.SlotTabAll
	}
	query.ProgramIDs = normalizeIDs(query.ProgramIDs)
	return s.computeOccupancy(ctx, query)
}

func (s *DashboardService) computeOccupancy(ctx context.Context, query dto.OccupancyQuery) (routine.OccupancyResult, error) {
	snap, err := s.snapshots.Load(ctx, query.SemesterID, SnapshotOptions{Rooms: true, Overrides: query.Date})
	if err != nil {
		return routine.OccupancyResult{}, err
	}

	start := time.Now()
	grid := snap.Routine
	if query.Date != "" {
		grid = routine.ApplyOverrides(snap.Routine, snap.Overrides, query.Date)
	}
	scope := routine.ScopeSet(snap.Programs, query.ProgramIDs)
	result := routine.ComputeOccupancy(routine.OccupancyInput{
		Rooms:        routine.RoomsInScope(snap.Rooms, scope),
		Programs:     snap.Programs,
		ScopePIDs:    query.ProgramIDs,
		Routine:      grid,
		DefaultSlots: snap.DefaultSlots,
		Tab:          query.Tab,
		WeekStart:    s.cfg.WeekStart,
	})
	s.metrics.ObserveAggregation("occupancy", time.Since(start))
	return result, nil
}

// CourseLoad returns the merge forest roots matching the query with their
// own and aggregated stats. Broken merge cycles are reported, not fatal.
func (s *DashboardService) CourseLoad(ctx context.Context, query dto.CourseLoadQuery) (*dto.CourseLoadResponse, *models.Pagination, error) {
	forest, stats, err := s.courseForest(ctx, query.SemesterID)
	if err != nil {
		return nil, nil, err
	}

	roots := routine.Filter(forest.Roots, withProgram(query.Criteria, query.ProgramID), routine.CourseFields)
	page, pagination := routine.Paginate(roots, query.Page, s.pageSize(query.PageSize))

	items := make([]dto.CourseLoadItem, 0, len(page))
	for _, root := range page {
		items = append(items, courseLoadItem(root, stats))
	}
	return &dto.CourseLoadResponse{
		SemesterID:      query.SemesterID,
		TotalCredit:     routine.TotalCredit(roots),
		Courses:         items,
		IntegrityErrors: forest.Errors,
	}, pagination, nil
}

// Forest returns the complete merge forest and per-section stats of a semester.
func (s *DashboardService) Forest(ctx context.Context, semesterID string) (routine.Forest, map[string]routine.Stats, error) {
	return s.courseForest(ctx, semesterID)
}

// TeacherLoad groups root sections by teacher and filters the result.
func (s *DashboardService) TeacherLoad(ctx context.Context, query dto.TeacherLoadQuery) ([]routine.TeacherLoad, *models.Pagination, error) {
	forest, _, err := s.courseForest(ctx, query.SemesterID)
	if err != nil {
		return nil, nil, err
	}
	roots := forest.Roots
	if query.ProgramID != "" {
		roots = routine.Filter(roots, withProgram(routine.Criteria{}, query.ProgramID), routine.CourseFields)
	}
	loads := routine.Filter(routine.TeacherLoads(roots), query.Criteria, routine.TeacherFields)
	page, pagination := routine.Paginate(loads, query.Page, s.pageSize(query.PageSize))
	return page, pagination, nil
}

// Occurrences counts how often day falls within [start, end]. Malformed dates count as zero.
func (s *DashboardService) Occurrences(day, start, end string) (*dto.OccurrenceResponse, error) {
	normalized := models.NormalizeDay(day)
	if normalized == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be a weekday name")
	}
	return &dto.OccurrenceResponse{
		Day:       normalized,
		StartDate: start,
		EndDate:   end,
		Count:     routine.CountDayOccurrences(normalized, start, end),
	}, nil
}

// InvalidateSemester drops cached occupancy for a semester, or for every
// semester when semesterID is empty.
func (s *DashboardService) InvalidateSemester(ctx context.Context, semesterID string) {
	if s.cache == nil {
		return
	}
	pattern := occupancyCachePrefix + ":*"
	if semesterID != "" {
		pattern = fmt.Sprintf("%s:%s:*", occupancyCachePrefix, semesterID)
	}
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

func (s *DashboardService) courseForest(ctx context.Context, semesterID string) (routine.Forest, map[string]routine.Stats, error) {
	snap, err := s.snapshots.Load(ctx, semesterID, SnapshotOptions{Sections: true})
	if err != nil {
		return routine.Forest{}, nil, err
	}

	start := time.Now()
	forest := routine.BuildForest(snap.Sections)
	stats := s.calculator.SectionStats(snap.Sections, snap.Routine, snap.Programs, snap.Semester)
	s.metrics.ObserveAggregation("course_load", time.Since(start))

	if len(forest.Errors) > 0 {
		s.metrics.AddIntegrityErrors(len(forest.Errors))
		for _, integrity := range forest.Errors {
			s.logger.Warn("section merge cycle broken",
				zap.String("semester_id", semesterID),
				zap.Strings("section_ids", integrity.SectionIDs),
				zap.String("broken_at", integrity.BrokenAt),
			)
		}
	}
	return forest, stats, nil
}

func (s *DashboardService) pageSize(size int) int {
	if size <= 0 {
		return s.cfg.DefaultPageSize
	}
	if size > s.cfg.MaxPageSize {
		return s.cfg.MaxPageSize
	}
	return size
}

func (s *DashboardService) tryOccupancyCache(ctx context.Context, key string) (*dto.OccupancyResponse, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	var cached dto.OccupancyResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}
	if hit {
		return &cached, true, nil
	}
	return nil, false, nil
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func occupancyCacheKey(query dto.OccupancyQuery) string {
	programs := "all"
	if len(query.ProgramIDs) > 0 {
		programs = strings.Join(query.ProgramIDs, ",")
	}
	date := query.Date
	if date == "" {
		date = "weekly"
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", occupancyCachePrefix, query.SemesterID, programs, query.Tab, date)
}

func buildOccupancyResponse(query dto.OccupancyQuery, result routine.OccupancyResult) *dto.OccupancyResponse {
	resp := &dto.OccupancyResponse{
		SemesterID: query.SemesterID,
		ProgramIDs: query.ProgramIDs,
		Tab:        query.Tab,
		Date:       query.Date,
		Days:       result.Days,
		Slots:      make([]dto.OccupancySlot, 0, len(result.Slots)),
		Cells:      make(map[string]map[string]dto.OccupancyCount, len(result.Cells)),
		DayTotals:  make(map[string]dto.OccupancyCount, len(result.DayTotals)),
		SlotTotals: make(map[string]dto.OccupancyCount, len(result.SlotTotals)),
		Total:      dto.NewOccupancyCount(result.Total),
	}
	if resp.ProgramIDs == nil {
		resp.ProgramIDs = []string{}
	}
	for _, slot := range result.Slots {
		resp.Slots = append(resp.Slots, dto.OccupancySlot{
			Slot:      slot.String(),
			Type:      slot.Type,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Display:   slot.Display(),
		})
	}
	for day, row := range result.Cells {
		cells := make(map[string]dto.OccupancyCount, len(row))
		for slot, count := range row {
			cells[slot] = dto.NewOccupancyCount(count)
		}
		resp.Cells[day] = cells
	}
	for day, count := range result.DayTotals {
		resp.DayTotals[day] = dto.NewOccupancyCount(count)
	}
	for slot, count := range result.SlotTotals {
		resp.SlotTotals[slot] = dto.NewOccupancyCount(count)
	}
	return resp
}

func courseLoadItem(node routine.DisplayCourse, stats map[string]routine.Stats) dto.CourseLoadItem {
	item := dto.CourseLoadItem{
		Enrollment: node.Enrollment,
		Stats:      stats[node.SectionID],
		TreeStats:  routine.TreeStats(node, stats),
		Children:   make([]dto.CourseLoadItem, 0, len(node.Children)),
	}
	for _, child := range node.Children {
		item.Children = append(item.Children, courseLoadItem(child, stats))
	}
	return item
}

func withProgram(criteria routine.Criteria, programID string) routine.Criteria {
	if programID == "" {
		return criteria
	}
	categories := make(map[string][]string, len(criteria.Categories)+1)
	for field, values := range criteria.Categories {
		categories[field] = values
	}
	categories["pId"] = []string{programID}
	criteria.Categories = categories
	return criteria
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	sort.Strings(result)
	return result
}
