package middleware

import (
	"net/http"
	"strings"

	"blog_api/internal/logger"
	"blog_api/internal/model"
	"blog_api/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, model.Envelope{Msg: msg, Variant: model.VariantError, Payload: nil})
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := jwtUtil.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// AuthUserID returns the authenticated user id set by JWTAuthMiddleware
func AuthUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(AuthUserKey)
	return userID, userID != ""
}

// AuthRole returns the role claim set by JWTAuthMiddleware
func AuthRole(c *gin.Context) string {
	return c.GetString(AuthRoleKey)
}
