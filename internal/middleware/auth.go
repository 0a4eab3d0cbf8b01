package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"seizure-care-server/internal/models"
	"seizure-care-server/internal/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextSubject = "operatorSubject"
	ContextRole    = "operatorRole"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRoleFromContext(c)
		if !ok {
			utils.InternalServerError(c, "An unexpected error occurred")
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetSubjectFromContext returns the authenticated operator name.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextSubject)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetRoleFromContext returns the authenticated operator role.
func GetRoleFromContext(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
