package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/service"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
	"github.com/noah-isme/routine-admin-api/pkg/response"
)

type timeSlotService interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	Replace(ctx context.Context, req service.TimeSlotsRequest) ([]models.TimeSlot, error)
}

type semesterService interface {
	Get(ctx context.Context, id string) (*models.SemesterConfig, error)
	Upsert(ctx context.Context, id string, req service.SemesterRequest) (*models.SemesterConfig, error)
}

// SettingsHandler exposes the default time slots and semester calendars.
type SettingsHandler struct {
	slots     timeSlotService
	semesters semesterService
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(slots timeSlotService, semesters semesterService) *SettingsHandler {
	return &SettingsHandler{slots: slots, semesters: semesters}
}

// TimeSlots godoc
// @Summary List default time slots
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /time-slots [get]
func (h *SettingsHandler) TimeSlots(c *gin.Context) {
	slots, err := h.slots.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// ReplaceTimeSlots godoc
// @Summary Replace default time slots
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.TimeSlotsRequest true "Time slots"
// @Success 200 {object} response.Envelope
// @Router /time-slots [put]
func (h *SettingsHandler) ReplaceTimeSlots(c *gin.Context) {
	var req service.TimeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time slots payload"))
		return
	}
	slots, err := h.slots.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Semester godoc
// @Summary Get semester calendar
// @Tags Settings
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId} [get]
func (h *SettingsHandler) Semester(c *gin.Context) {
	semester, err := h.semesters.Get(c.Request.Context(), c.Param("semesterId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester, nil)
}

// UpsertSemester godoc
// @Summary Create or replace a semester calendar
// @Tags Settings
// @Accept json
// @Produce json
// @Param semesterId path string true "Semester ID"
// @Param payload body service.SemesterRequest true "Semester payload"
// @Success 200 {object} response.Envelope
// @Router /semesters/{semesterId} [put]
func (h *SettingsHandler) UpsertSemester(c *gin.Context) {
	var req service.SemesterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid semester payload"))
		return
	}
	semester, err := h.semesters.Upsert(c.Request.Context(), c.Param("semesterId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, semester, nil)
}
