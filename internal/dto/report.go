package dto

import "github.com/noah-isme/routine-admin-api/internal/models"

// ReportRequest captures POST /reports payload.
type ReportRequest struct {
	Type       models.ReportType   `json:"type" validate:"required,oneof=routine_grid course_load teacher_load occupancy"`
	SemesterID string              `json:"semesterId" validate:"required"`
	ProgramIDs []string            `json:"programIds" validate:"omitempty,dive,required"`
	Tab        string              `json:"tab" validate:"omitempty,oneof=All Theory Lab"`
	Day        string              `json:"day" validate:"omitempty,weekday"`
	Date       string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Format     models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
