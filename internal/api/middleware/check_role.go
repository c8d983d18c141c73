package middleware

import (
	"CAConnect/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// CheckRoles requires at least one of the given roles.
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice("roles")

		hasPermission := false
		for _, required := range requiredRoles {
			for _, userRole := range roles {
				if required == userRole {
					hasPermission = true
					break
				}
			}
			if hasPermission {
				break
			}
		}

		if !hasPermission {
			response.Fail(c, response.Forbidden, "you do not have access to this resource")
			c.Abort()
			return
		}

		c.Next()
	}
}
