package middleware

import (
	"net/http"
	"strings"

	"hireloop/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextCallerID = "callerID"
	ContextRole     = "callerRole"
)

// AuthMiddleware verifies the bearer token issued by the identity provider
// and injects the caller id and role into the request context. Identity is
// trusted as-is; ownership checks happen in the service layer.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		callerID, role, err := utils.ExtractCallerFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(ContextCallerID, callerID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// CallerID returns the authenticated caller id from the context.
func CallerID(c *gin.Context) string {
	id, _ := c.Get(ContextCallerID)
	s, _ := id.(string)
	return s
}

// CallerRole returns the authenticated caller role from the context.
func CallerRole(c *gin.Context) string {
	role, _ := c.Get(ContextRole)
	s, _ := role.(string)
	return s
}
