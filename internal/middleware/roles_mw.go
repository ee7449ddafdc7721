package middleware

import (
	"net/http"
	"slices"

	"blog_api/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific user roles.
// Roles the API never issues are always rejected; with no allowedRoles any known role passes.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			abortWithError(c, http.StatusForbidden, "Role not found in token")
			return
		}

		userRole, ok := roleVal.(string)
		if !ok || !model.IsKnownRole(userRole) {
			abortWithError(c, http.StatusForbidden, "You do not have permission to access this resource")
			return
		}
		if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, userRole) {
			abortWithError(c, http.StatusForbidden, "You do not have permission to access this resource")
			return
		}

		c.Next()
	}
}

// UserMiddleware accepts any role the API issues
func UserMiddleware() gin.HandlerFunc {
	return RoleMiddleware()
}
