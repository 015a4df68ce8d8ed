// Package middleware description is Middleware that checks if the user is an admin.
// file: middleware/admin_required.go
package middleware

import (
	"net/http"

	"badminton-club/logger"

	"github.com/gin-gonic/gin"
)

// AdminRequired blocks users without the admin role. It must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !user.IsAdmin() {
			logger.Warn.Printf("AdminRequired Middleware - user %s blocked from %s", user.ID, c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required", "code": "FORBIDDEN"})
			return
		}

		c.Next()
	}
}
