package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-admin-api/internal/dto"
	"github.com/noah-isme/routine-admin-api/internal/middleware"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
	"github.com/noah-isme/routine-admin-api/pkg/response"
)

type dashboardService interface {
	Occupancy(ctx context.Context, query dto.OccupancyQuery) (*dto.OccupancyResponse, bool, error)
	CourseLoad(ctx context.Context, query dto.CourseLoadQuery) (*dto.CourseLoadResponse, *models.Pagination, error)
	TeacherLoad(ctx context.Context, query dto.TeacherLoadQuery) ([]routine.TeacherLoad, *models.Pagination, error)
	Forest(ctx context.Context, semesterID string) (routine.Forest, map[string]routine.Stats, error)
	Occurrences(day, start, end string) (*dto.OccurrenceResponse, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Occupancy godoc
// @Summary Room occupancy grid
// @Tags Dashboard
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param programs query string false "Program ids (comma separated); empty means all"
// @Param tab query string false "All, Theory or Lab"
// @Param date query string false "Date (YYYY-MM-DD) to apply overrides for"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId}/occupancy [get]
func (h *DashboardHandler) Occupancy(c *gin.Context) {
	query := dto.OccupancyQuery{
		SemesterID: c.Param("semesterId"),
		ProgramIDs: queryList(c, "programs"),
		Tab:        models.ParseSlotTab(c.Query("tab")),
		Date:       strings.TrimSpace(c.Query("date")),
	}
	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleCoordinator && len(claims.ProgramPIDs) > 0 {
		if len(query.ProgramIDs) == 0 {
			query.ProgramIDs = claims.ProgramPIDs
		} else if !subsetOf(query.ProgramIDs, claims.ProgramPIDs) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "program outside coordinator scope"))
			return
		}
	}
	start := time.Now()
	result, cacheHit, err := h.service.Occupancy(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := withMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, result, nil, meta)
}

// Courses godoc
// @Summary Course load with merge trees
// @Tags Dashboard
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param programId query string false "Program id"
// @Param courseType query string false "Course type filter (repeatable)"
// @Param minCredit query number false "Minimum credit"
// @Param maxCredit query number false "Maximum credit"
// @Param search query string false "Free-text search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId}/courses [get]
func (h *DashboardHandler) Courses(c *gin.Context) {
	page, size := pageParams(c)
	query := dto.CourseLoadQuery{
		SemesterID: c.Param("semesterId"),
		ProgramID:  strings.TrimSpace(c.Query("programId")),
		Criteria:   criteriaFromQuery(c, routine.CourseFields),
		Page:       page,
		PageSize:   size,
	}
	result, pagination, err := h.service.CourseLoad(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetIntegrityErrors(c, result.IntegrityErrors)
	response.JSON(c, http.StatusOK, result, pagination, withMeta(c))
}

// Teachers godoc
// @Summary Teacher loads
// @Tags Dashboard
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param programId query string false "Program id"
// @Param designation query string false "Designation filter (repeatable)"
// @Param minCreditLoad query number false "Minimum credit load"
// @Param maxCreditLoad query number false "Maximum credit load"
// @Param search query string false "Free-text search"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId}/teachers [get]
func (h *DashboardHandler) Teachers(c *gin.Context) {
	page, size := pageParams(c)
	query := dto.TeacherLoadQuery{
		SemesterID: c.Param("semesterId"),
		ProgramID:  strings.TrimSpace(c.Query("programId")),
		Criteria:   criteriaFromQuery(c, routine.TeacherFields),
		Page:       page,
		PageSize:   size,
	}
	loads, pagination, err := h.service.TeacherLoad(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loads, pagination, withMeta(c))
}

// SectionForest godoc
// @Summary Flattened section merge forest
// @Tags Sections
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId}/sections/forest [get]
func (h *DashboardHandler) SectionForest(c *gin.Context) {
	forest, _, err := h.service.Forest(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetIntegrityErrors(c, forest.Errors)
	meta := withMeta(c)
	meta["total_credit"] = routine.TotalCredit(forest.Roots)
	response.JSON(c, http.StatusOK, routine.Flatten(forest.Roots), nil, meta)
}

// Occurrences godoc
// @Summary Count weekday occurrences in a date range
// @Tags Calendar
// @Produce json
// @Param day query string true "Weekday name"
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendar/occurrences [get]
func (h *DashboardHandler) Occurrences(c *gin.Context) {
	result, err := h.service.Occurrences(c.Query("day"), strings.TrimSpace(c.Query("start")), strings.TrimSpace(c.Query("end")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

func withMeta(c *gin.Context) map[string]interface{} {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return meta
}

func subsetOf(values, allowed []string) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
