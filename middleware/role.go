package middleware

import (
	"net/http"

	"hireloop/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole gates an endpoint to callers holding one of the given roles.
// Admins pass every gate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		if role == utils.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient role for this action",
		})
	}
}
