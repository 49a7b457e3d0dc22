package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-admin-api/internal/models"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (s *stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	s.token = token
	return s.claims, s.err
}

type observedRequest struct {
	method string
	path   string
	status int
}

type stubObserver struct {
	requests []observedRequest
}

func (s *stubObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	s.requests = append(s.requests, observedRequest{method: method, path: path, status: status})
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/rooms/:id", handlers...)
	return router
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms/r1", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTRequiresBearerToken(t *testing.T) {
	validator := &stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}}
	router := newRouter(JWT(validator))

	assert.Equal(t, http.StatusUnauthorized, serve(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, "Basic abc").Code)
	assert.Equal(t, http.StatusNoContent, serve(router, "bearer token-1").Code)
	assert.Equal(t, "token-1", validator.token)
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	validator := &stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")}
	router := newRouter(JWT(validator))
	assert.Equal(t, http.StatusUnauthorized, serve(router, "Bearer nope").Code)
}

func TestRequireRoles(t *testing.T) {
	admin := &stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}}
	teacher := &stubValidator{claims: &models.JWTClaims{UserID: "u2", Role: models.RoleTeacher}}

	assert.Equal(t, http.StatusNoContent, serve(newRouter(JWT(admin), RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)), "Bearer t").Code)
	assert.Equal(t, http.StatusForbidden, serve(newRouter(JWT(teacher), RequireRoles(models.RoleAdmin, models.RoleSuperAdmin)), "Bearer t").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(newRouter(RequireRoles(models.RoleAdmin)), "").Code)
}

func TestRequireAccessUsesRoleDefaults(t *testing.T) {
	canCourseLoad := func(a models.DashboardAccess) bool { return a.CanViewCourseLoad }

	coordinator := &stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleCoordinator}}
	var resolved models.DashboardAccess
	router := newRouter(JWT(coordinator), RequireAccess(canCourseLoad), func(c *gin.Context) {
		resolved = Access(c)
		c.Next()
	})
	assert.Equal(t, http.StatusNoContent, serve(router, "Bearer t").Code)
	assert.True(t, resolved.CanExportReports)
	assert.False(t, resolved.CanEditRoutine)

	teacher := &stubValidator{claims: &models.JWTClaims{UserID: "u2", Role: models.RoleTeacher}}
	assert.Equal(t, http.StatusForbidden, serve(newRouter(JWT(teacher), RequireAccess(canCourseLoad)), "Bearer t").Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/x", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetIntegrityErrors(c, []string{"cycle"})
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.NotNil(t, meta)
	assert.Equal(t, true, meta[cacheHitKey])
	assert.Equal(t, []string{"cycle"}, meta[integrityErrorsKey])
	assert.Contains(t, meta, processingTimeKey)
}

func TestSetIntegrityErrorsSkipsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	SetIntegrityErrors(c, []string{})
	assert.NotContains(t, ensureMeta(c), integrityErrorsKey)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	observer := &stubObserver{}
	router := newRouter(Metrics(observer))
	serve(router, "")

	require.Len(t, observer.requests, 1)
	assert.Equal(t, observedRequest{method: http.MethodGet, path: "/rooms/:id", status: http.StatusNoContent}, observer.requests[0])
}
