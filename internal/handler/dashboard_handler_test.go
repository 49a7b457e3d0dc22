package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/dto"
	"github.com/noah-isme/routine-admin-api/internal/middleware"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type fakeDashboardSrv struct {
	occupancy     *dto.OccupancyResponse
	occupancyHit  bool
	occupancyErr  error
	lastOccupancy dto.OccupancyQuery

	courses       *dto.CourseLoadResponse
	lastCourses   dto.CourseLoadQuery
	teachers      []routine.TeacherLoad
	lastTeachers  dto.TeacherLoadQuery
	forest        routine.Forest
	occurrenceErr error
}

func (f *fakeDashboardSrv) Occupancy(_ context.Context, query dto.OccupancyQuery) (*dto.OccupancyResponse, bool, error) {
	f.lastOccupancy = query
	return f.occupancy, f.occupancyHit, f.occupancyErr
}

func (f *fakeDashboardSrv) CourseLoad(_ context.Context, query dto.CourseLoadQuery) (*dto.CourseLoadResponse, *models.Pagination, error) {
	f.lastCourses = query
	return f.courses, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(f.courses.Courses)}, nil
}

func (f *fakeDashboardSrv) TeacherLoad(_ context.Context, query dto.TeacherLoadQuery) ([]routine.TeacherLoad, *models.Pagination, error) {
	f.lastTeachers = query
	return f.teachers, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(f.teachers)}, nil
}

func (f *fakeDashboardSrv) Forest(context.Context, string) (routine.Forest, map[string]routine.Stats, error) {
	return f.forest, nil, nil
}

func (f *fakeDashboardSrv) Occurrences(day, start, end string) (*dto.OccurrenceResponse, error) {
	if f.occurrenceErr != nil {
		return nil, f.occurrenceErr
	}
	return &dto.OccurrenceResponse{Day: day, StartDate: start, EndDate: end, Count: 4}, nil
}

type responseEnvelope struct {
	Data json.RawMessage        `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}

func newDashboardContext(target string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = gin.Params{{Key: "semesterId", Value: "sem-1"}}
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func TestDashboardHandlerOccupancyParsesQuery(t *testing.T) {
	srv := &fakeDashboardSrv{occupancy: &dto.OccupancyResponse{SemesterID: "sem-1"}, occupancyHit: true}
	handler := NewDashboardHandler(srv)

	c, rec := newDashboardContext("/semesters/sem-1/occupancy?programs=CSE,EEE&programs=BBA&tab=lab&date=2024-01-08", &models.JWTClaims{Role: models.RoleAdmin})
	handler.Occupancy(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"CSE", "EEE", "BBA"}, srv.lastOccupancy.ProgramIDs)
	assert.Equal(t, models.SlotTabLab, srv.lastOccupancy.Tab)
	assert.Equal(t, "2024-01-08", srv.lastOccupancy.Date)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
}

func TestDashboardHandlerOccupancyCoordinatorScope(t *testing.T) {
	coordinator := &models.JWTClaims{Role: models.RoleCoordinator, ProgramPIDs: []string{"CSE"}}

	srv := &fakeDashboardSrv{occupancy: &dto.OccupancyResponse{}}
	c, rec := newDashboardContext("/semesters/sem-1/occupancy", coordinator)
	NewDashboardHandler(srv).Occupancy(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"CSE"}, srv.lastOccupancy.ProgramIDs)

	c, rec = newDashboardContext("/semesters/sem-1/occupancy?programs=EEE", coordinator)
	NewDashboardHandler(srv).Occupancy(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDashboardHandlerOccupancyError(t *testing.T) {
	srv := &fakeDashboardSrv{occupancyErr: appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")}
	c, rec := newDashboardContext("/semesters/sem-1/occupancy?date=bad", nil)
	NewDashboardHandler(srv).Occupancy(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerCoursesCriteriaAndIntegrityMeta(t *testing.T) {
	srv := &fakeDashboardSrv{courses: &dto.CourseLoadResponse{
		SemesterID:      "sem-1",
		IntegrityErrors: []routine.IntegrityError{{SectionIDs: []string{"a", "b"}, BrokenAt: "a", Message: "cycle"}},
	}}
	c, rec := newDashboardContext("/semesters/sem-1/courses?courseType=Theory&minCredit=2&search=data&page=2&limit=5", nil)
	NewDashboardHandler(srv).Courses(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Theory"}, srv.lastCourses.Criteria.Categories["courseType"])
	assert.Equal(t, "2", srv.lastCourses.Criteria.Ranges["credit"].Min)
	assert.Equal(t, "data", srv.lastCourses.Criteria.Search)
	assert.Equal(t, 2, srv.lastCourses.Page)
	assert.Equal(t, 5, srv.lastCourses.PageSize)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, envelope.Meta, "integrity_errors")
}

func TestDashboardHandlerTeachersCriteria(t *testing.T) {
	srv := &fakeDashboardSrv{teachers: []routine.TeacherLoad{{TeacherID: "t-1"}}}
	c, rec := newDashboardContext("/semesters/sem-1/teachers?designation=Lecturer&maxCreditLoad=12", nil)
	NewDashboardHandler(srv).Teachers(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Lecturer"}, srv.lastTeachers.Criteria.Categories["designation"])
	assert.Equal(t, "12", srv.lastTeachers.Criteria.Ranges["creditLoad"].Max)
}

func TestDashboardHandlerSectionForestFlattens(t *testing.T) {
	parent := "s1"
	srv := &fakeDashboardSrv{forest: routine.Forest{Roots: []routine.DisplayCourse{{
		Enrollment: models.Enrollment{SectionID: "s1", CourseCode: "CSE101", Credit: 3},
		Children:   []routine.DisplayCourse{{Enrollment: models.Enrollment{SectionID: "s2", CourseCode: "CSE101", Credit: 3, MergedWithSectionID: &parent}}},
	}}}}
	c, rec := newDashboardContext("/semesters/sem-1/sections/forest", nil)
	NewDashboardHandler(srv).SectionForest(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var rows []routine.FlatRow
	require.NoError(t, json.Unmarshal(envelope.Data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[1].Depth)
	assert.Equal(t, routine.MergedCreditLabel, rows[1].CreditLabel)
	assert.Equal(t, float64(3), envelope.Meta["total_credit"])
	assert.NotContains(t, envelope.Meta, "integrity_errors")
}

func TestDashboardHandlerOccurrences(t *testing.T) {
	c, rec := newDashboardContext("/calendar/occurrences?day=Monday&start=2024-01-01&end=2024-01-31", nil)
	NewDashboardHandler(&fakeDashboardSrv{}).Occurrences(c)
	require.Equal(t, http.StatusOK, rec.Code)

	srv := &fakeDashboardSrv{occurrenceErr: appErrors.Clone(appErrors.ErrValidation, "invalid day")}
	c, rec = newDashboardContext("/calendar/occurrences?day=Funday", nil)
	NewDashboardHandler(srv).Occurrences(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
