package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/service"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
	"github.com/noah-isme/routine-admin-api/pkg/response"
)

type routineService interface {
	Grid(ctx context.Context, semesterID, date string) (models.FullRoutineData, error)
	UpsertCell(ctx context.Context, semesterID string, req service.RoutineCellRequest) (*models.RoutineEntry, error)
	DeleteCell(ctx context.Context, semesterID string, req service.RoutineCellRequest) error
	UpsertOverrides(ctx context.Context, semesterID string, req service.OverridesRequest) ([]models.OverrideEntry, error)
}

type mergeService interface {
	Merge(ctx context.Context, sectionID string, req service.MergeRequest) (*models.Enrollment, error)
}

// RoutineHandler exposes the weekly routine grid, its date overrides and
// section merges.
type RoutineHandler struct {
	routine routineService
	merges  mergeService
}

// NewRoutineHandler constructs a RoutineHandler.
func NewRoutineHandler(routine routineService, merges mergeService) *RoutineHandler {
	return &RoutineHandler{routine: routine, merges: merges}
}

// Grid godoc
// @Summary Routine grid of a semester
// @Tags Routine
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param date query string false "Date (YYYY-MM-DD) to apply overrides for"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId}/routine [get]
func (h *RoutineHandler) Grid(c *gin.Context) {
	grid, err := h.routine.Grid(c.Request.Context(), c.Param("semesterId"), strings.TrimSpace(c.Query("date")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// UpsertCell godoc
// @Summary Assign a class to a routine cell
// @Tags Routine
// @Accept json
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param payload body service.RoutineCellRequest true "Cell payload"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId}/routine/cells [put]
func (h *RoutineHandler) UpsertCell(c *gin.Context) {
	var req service.RoutineCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine cell payload"))
		return
	}
	entry, err := h.routine.UpsertCell(c.Request.Context(), c.Param("semesterId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// DeleteCell godoc
// @Summary Free a routine cell
// @Tags Routine
// @Accept json
// @Param semesterId path string true "Semester ID"
// @Param payload body service.RoutineCellRequest true "Cell payload"
// @Success 204
// @Router /semesters/{semesterId}/routine/cells [delete]
func (h *RoutineHandler) DeleteCell(c *gin.Context) {
	var req service.RoutineCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid routine cell payload"))
		return
	}
	if err := h.routine.DeleteCell(c.Request.Context(), c.Param("semesterId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UpsertOverrides godoc
// @Summary Set date-specific overrides
// @Tags Routine
// @Accept json
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param payload body service.OverridesRequest true "Overrides payload"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId}/overrides [put]
func (h *RoutineHandler) UpsertOverrides(c *gin.Context) {
	var req service.OverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid overrides payload"))
		return
	}
	entries, err := h.routine.UpsertOverrides(c.Request.Context(), c.Param("semesterId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"count": len(entries)})
}

// Merge godoc
// @Summary Merge a section under a parent section
// @Tags Sections
// @Accept json
// @Produce json
// @Param sectionId path string true "Section ID"
// @Param payload body service.MergeRequest true "Merge payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sections/{sectionId}/merge [put]
func (h *RoutineHandler) Merge(c *gin.Context) {
	var req service.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid merge payload"))
		return
	}
	section, err := h.merges.Merge(c.Request.Context(), c.Param("sectionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}
