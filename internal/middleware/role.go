package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/siamfield/salesflow/pkg/errors"
	"github.com/siamfield/salesflow/pkg/response"
)

// Context keys set by the identity middleware.
const (
	ContextRoleKey = "actor_role"
	ContextUserKey = "actor_name"
)

// Roles accepted on the identity header. There is no authentication layer;
// the deployment fronts this API with a trusted gateway.
const (
	RoleManager  = "manager"
	RoleSalesRep = "sales_rep"
)

// Identity reads the trusted X-User-Role and X-User-Name headers into the
// request context. Absent headers default to the sales rep role.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := strings.ToLower(strings.TrimSpace(c.GetHeader("X-User-Role")))
		if role != RoleManager {
			role = RoleSalesRep
		}
		c.Set(ContextRoleKey, role)
		c.Set(ContextUserKey, strings.TrimSpace(c.GetHeader("X-User-Name")))
		c.Next()
	}
}

// RequireManager gates manager-only endpoints.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRoleKey) != RoleManager {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "manager role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
