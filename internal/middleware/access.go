package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-admin-api/internal/models"
	appErrors "github.com/noah-isme/routine-admin-api/pkg/errors"
	"github.com/noah-isme/routine-admin-api/pkg/response"
)

const dashboardAccessKey = "dashboard_access"

// RequireAccess resolves the caller's dashboard access from their role and
// rejects the request unless allow approves it.
func RequireAccess(allow func(models.DashboardAccess) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		access := models.DashboardAccessFor(claims.Role)
		if allow != nil && !allow(access) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "dashboard access denied"))
			c.Abort()
			return
		}
		c.Set(dashboardAccessKey, access)
		c.Next()
	}
}

// Access returns the dashboard access resolved by RequireAccess, falling back
// to the role defaults of the current claims.
func Access(c *gin.Context) models.DashboardAccess {
	if value, exists := c.Get(dashboardAccessKey); exists {
		if access, ok := value.(models.DashboardAccess); ok {
			return access
		}
	}
	if claims := Claims(c); claims != nil {
		return models.DashboardAccessFor(claims.Role)
	}
	return models.DashboardAccess{}
}
