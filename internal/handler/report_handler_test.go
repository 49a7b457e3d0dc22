package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/dto"
	"github.com/noah-isme/routine-admin-api/internal/middleware"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/service"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type reportServiceMock struct {
	createResp  *dto.ReportJobResponse
	createErr   error
	lastRequest dto.ReportRequest
	lastAccess  models.DashboardAccess
	statusResp  *dto.ReportStatusResponse
	statusErr   error
	download    *service.ReportDownload
	downloadErr error
}

func (m *reportServiceMock) CreateJob(_ context.Context, req dto.ReportRequest, _ string, access models.DashboardAccess) (*dto.ReportJobResponse, error) {
	m.lastRequest = req
	m.lastAccess = access
	return m.createResp, m.createErr
}

func (m *reportServiceMock) GetStatus(context.Context, string, string, models.UserRole) (*dto.ReportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *reportServiceMock) ResolveDownload(context.Context, string) (*service.ReportDownload, error) {
	return m.download, m.downloadErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerGenerateReport(t *testing.T) {
	mockSvc := &reportServiceMock{
		createResp: &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued, Progress: 0},
	}
	handler := NewReportHandler(mockSvc, nil)

	payload, _ := json.Marshal(dto.ReportRequest{Type: models.ReportTypeOccupancy, SemesterID: "sem-1", Tab: "Lab", Format: models.ReportFormatCSV})
	c, w := newGinContext(http.MethodPost, "/reports/generate", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.GenerateReport(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.True(t, mockSvc.lastAccess.CanExportReports)
	assert.Equal(t, "sem-1", mockSvc.lastRequest.SemesterID)
}

func TestReportHandlerGenerateReportValidation(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, nil)

	payload, _ := json.Marshal(dto.ReportRequest{Type: "grades", SemesterID: "sem-1", Format: models.ReportFormatCSV})
	c, w := newGinContext(http.MethodPost, "/reports/generate", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	handler.GenerateReport(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload, _ = json.Marshal(dto.ReportRequest{Type: models.ReportTypeRoutineGrid, SemesterID: "sem-1", Day: "Funday", Format: models.ReportFormatPDF})
	c, w = newGinContext(http.MethodPost, "/reports/generate", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	handler.GenerateReport(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerGenerateReportCoordinatorScope(t *testing.T) {
	mockSvc := &reportServiceMock{createResp: &dto.ReportJobResponse{ID: "job-2"}}
	handler := NewReportHandler(mockSvc, nil)
	coordinator := &models.JWTClaims{UserID: "coord", Role: models.RoleCoordinator, ProgramPIDs: []string{"CSE"}}

	payload, _ := json.Marshal(dto.ReportRequest{Type: models.ReportTypeCourseLoad, SemesterID: "sem-1", Format: models.ReportFormatCSV})
	c, w := newGinContext(http.MethodPost, "/reports/generate", payload)
	c.Set(middleware.ContextUserKey, coordinator)
	handler.GenerateReport(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"CSE"}, mockSvc.lastRequest.ProgramIDs)

	payload, _ = json.Marshal(dto.ReportRequest{Type: models.ReportTypeCourseLoad, SemesterID: "sem-1", ProgramIDs: []string{"EEE"}, Format: models.ReportFormatCSV})
	c, w = newGinContext(http.MethodPost, "/reports/generate", payload)
	c.Set(middleware.ContextUserKey, coordinator)
	handler.GenerateReport(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReportHandlerGenerateReportRequiresClaims(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{}, nil)
	c, w := newGinContext(http.MethodPost, "/reports/generate", []byte(`{}`))
	handler.GenerateReport(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerReportStatus(t *testing.T) {
	mockSvc := &reportServiceMock{
		statusResp: &dto.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100},
	}
	handler := NewReportHandler(mockSvc, nil)

	c, w := newGinContext(http.MethodGet, "/reports/status/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.ReportStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestReportHandlerDownloadReport(t *testing.T) {
	mockSvc := &reportServiceMock{
		download: &service.ReportDownload{
			Payload:     []byte("Day,Room\n"),
			Filename:    "routine_grid.csv",
			ContentType: "text/csv",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	handler := NewReportHandler(mockSvc, nil)

	c, w := newGinContext(http.MethodGet, "/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.DownloadReport(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Day,Room\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "routine_grid.csv")
	assert.NotEmpty(t, w.Header().Get("X-Export-Expires-At"))
}

func TestReportHandlerDownloadReportForbidden(t *testing.T) {
	handler := NewReportHandler(&reportServiceMock{downloadErr: appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")}, nil)
	c, w := newGinContext(http.MethodGet, "/export/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}
	handler.DownloadReport(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
