package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/routine-admin-api/internal/dto"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	"github.com/noah-isme/routine-admin-api/pkg/export"
	"github.com/noah-isme/routine-admin-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type aggregationSource interface {
	OccupancyResult(ctx context.Context, query dto.OccupancyQuery) (routine.OccupancyResult, error)
	Forest(ctx context.Context, semesterID string) (routine.Forest, map[string]routine.Stats, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
	WeekStart string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets from the aggregation engine and persists rendered files.
type ExportService struct {
	snapshots   snapshotSource
	aggregation aggregationSource
	storage     fileStorage
	csv         datasetRenderer
	pdf         datasetRenderer
	signer      *storage.SignedURLSigner
	logger      *zap.Logger
	now         func() time.Time
	cfg         ExportConfig
}

// ExportServiceParams groups constructor dependencies. Nil renderers default to
// the CSV and PDF exporters.
type ExportServiceParams struct {
	Snapshots   snapshotSource
	Aggregation aggregationSource
	Storage     fileStorage
	Signer      *storage.SignedURLSigner
	CSV         datasetRenderer
	PDF         datasetRenderer
	Logger      *zap.Logger
	Config      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		snapshots:   params.Snapshots,
		aggregation: params.Aggregation,
		storage:     params.Storage,
		csv:         csv,
		pdf:         pdf,
		signer:      params.Signer,
		logger:      logger,
		now:         time.Now,
		cfg:         cfg,
	}
}

// Generate builds the dataset of a job, renders it and stores the file behind a signed URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, err := s.Dataset(ctx, job.Type, job.Params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Read returns the stored file content.
func (s *ExportService) Read(relPath string) ([]byte, error) {
	return s.storage.Read(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// Dataset builds the tabular content of a report.
func (s *ExportService) Dataset(ctx context.Context, reportType models.ReportType, params models.ReportJobParams) (export.Dataset, error) {
	switch reportType {
	case models.ReportTypeRoutineGrid:
		return s.routineGridDataset(ctx, params)
	case models.ReportTypeCourseLoad:
		return s.courseLoadDataset(ctx, params)
	case models.ReportTypeTeacherLoad:
		return s.teacherLoadDataset(ctx, params)
	case models.ReportTypeOccupancy:
		return s.occupancyDataset(ctx, params)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported report type %s", reportType)
	}
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	semester := sanitizeFilename(job.Params.SemesterID)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), semester, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) routineGridDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	snap, err := s.snapshots.Load(ctx, params.SemesterID, SnapshotOptions{Rooms: true})
	if err != nil {
		return export.Dataset{}, err
	}
	scope := routine.ScopeSet(snap.Programs, params.ProgramPIDs)
	scoped := make([]models.Program, 0, len(scope))
	for _, program := range snap.Programs {
		if _, ok := scope[program.PID]; ok {
			scoped = append(scoped, program)
		}
	}
	rooms := routine.RoomsInScope(snap.Rooms, scope)
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomNumber < rooms[j].RoomNumber })
	slots := routine.HeaderSlots(scoped, snap.DefaultSlots, tabOrAll(params.Tab))

	headers := []string{"Day", "Room"}
	for _, slot := range slots {
		headers = append(headers, slot.String())
	}

	onlyDay := models.NormalizeDay(params.Day)
	rows := make([]map[string]string, 0)
	for _, day := range models.WeekOrder(s.cfg.WeekStart) {
		if onlyDay != "" && day != onlyDay {
			continue
		}
		if _, scheduled := snap.Routine[day]; !scheduled {
			continue
		}
		for _, room := range rooms {
			row := map[string]string{"Day": day, "Room": room.RoomNumber}
			for _, slot := range slots {
				if detail := snap.Routine.Cell(day, room.RoomNumber, slot.String()); detail != nil {
					row[slot.String()] = classLabel(detail)
				}
			}
			rows = append(rows, row)
		}
	}

	return export.Dataset{
		Title:   fmt.Sprintf("Class Routine %s", params.SemesterID),
		Headers: headers,
		Rows:    rows,
	}, nil
}

func (s *ExportService) courseLoadDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	forest, stats, err := s.aggregation.Forest(ctx, params.SemesterID)
	if err != nil {
		return export.Dataset{}, err
	}
	roots := rootsInScope(forest.Roots, params.ProgramPIDs)

	headers := []string{"Course Code", "Course Title", "Section", "Program", "Teacher", "Credit", "Students", "CIW", "CR", "CAT"}
	flat := routine.Flatten(roots)
	rows := make([]map[string]string, 0, len(flat))
	for _, row := range flat {
		own := stats[row.SectionID]
		rows = append(rows, map[string]string{
			"Course Code":  strings.Repeat("  ", row.Depth) + row.CourseCode,
			"Course Title": row.CourseTitle,
			"Section":      row.Section,
			"Program":      row.PID,
			"Teacher":      row.TeacherName,
			"Credit":       row.CreditLabel,
			"Students":     strconv.Itoa(own.Students),
			"CIW":          strconv.Itoa(own.CIW),
			"CR":           strconv.Itoa(own.CR),
			"CAT":          strconv.Itoa(own.CAT),
		})
	}
	if len(forest.Errors) > 0 {
		s.logger.Warn("course load export includes broken merge cycles",
			zap.String("semester_id", params.SemesterID),
			zap.Int("cycles", len(forest.Errors)),
		)
	}

	return export.Dataset{
		Title:   fmt.Sprintf("Course Load %s", params.SemesterID),
		Headers: headers,
		Rows:    rows,
		Footer: map[string]string{
			"Course Code": "Total credit",
			"Credit":      strconv.FormatFloat(routine.TotalCredit(roots), 'f', -1, 64),
		},
	}, nil
}

func (s *ExportService) teacherLoadDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	forest, _, err := s.aggregation.Forest(ctx, params.SemesterID)
	if err != nil {
		return export.Dataset{}, err
	}
	loads := routine.TeacherLoads(rootsInScope(forest.Roots, params.ProgramPIDs))

	headers := []string{"Teacher ID", "Name", "Designation", "Courses", "Credit Load", "Email", "Mobile"}
	rows := make([]map[string]string, 0, len(loads))
	var credit float64
	for _, load := range loads {
		credit += load.CreditLoad
		rows = append(rows, map[string]string{
			"Teacher ID":  load.TeacherID,
			"Name":        load.Name,
			"Designation": load.Designation,
			"Courses":     strconv.Itoa(load.CourseCount),
			"Credit Load": strconv.FormatFloat(load.CreditLoad, 'f', -1, 64),
			"Email":       load.Email,
			"Mobile":      load.Mobile,
		})
	}

	return export.Dataset{
		Title:   fmt.Sprintf("Teacher Load %s", params.SemesterID),
		Headers: headers,
		Rows:    rows,
		Footer:  map[string]string{"Teacher ID": "Total", "Credit Load": strconv.FormatFloat(credit, 'f', -1, 64)},
	}, nil
}

func (s *ExportService) occupancyDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, error) {
	result, err := s.aggregation.OccupancyResult(ctx, dto.OccupancyQuery{
		SemesterID: params.SemesterID,
		ProgramIDs: params.ProgramPIDs,
		Tab:        tabOrAll(params.Tab),
		Date:       params.Date,
	})
	if err != nil {
		return export.Dataset{}, err
	}

	headers := []string{"Day"}
	for _, slot := range result.Slots {
		headers = append(headers, slot.String())
	}
	headers = append(headers, "Total")

	rows := make([]map[string]string, 0, len(result.Days))
	for _, day := range result.Days {
		row := map[string]string{"Day": day, "Total": occupancyLabel(result.DayTotals[day])}
		for _, slot := range result.Slots {
			row[slot.String()] = occupancyLabel(result.Cells[day][slot.String()])
		}
		rows = append(rows, row)
	}
	footer := map[string]string{"Day": "Total", "Total": occupancyLabel(result.Total)}
	for _, slot := range result.Slots {
		footer[slot.String()] = occupancyLabel(result.SlotTotals[slot.String()])
	}

	return export.Dataset{
		Title:   fmt.Sprintf("Room Occupancy %s", params.SemesterID),
		Headers: headers,
		Rows:    rows,
		Footer:  footer,
	}, nil
}

func rootsInScope(roots []routine.DisplayCourse, pids []string) []routine.DisplayCourse {
	if len(pids) == 0 {
		return roots
	}
	return routine.Filter(roots, routine.Criteria{Categories: map[string][]string{"pId": pids}}, routine.CourseFields)
}

func classLabel(detail *models.ClassDetail) string {
	label := fmt.Sprintf("%s (%s)", detail.CourseCode, detail.Section)
	if detail.Teacher != "" {
		label += " " + detail.Teacher
	}
	return label
}

func occupancyLabel(count routine.Count) string {
	return fmt.Sprintf("%d/%d %s", count.Booked, count.Total, count.Label())
}

func tabOrAll(tab models.SlotTab) models.SlotTab {
	if tab == "" {
		return models.SlotTabAll
	}
	return tab
}
