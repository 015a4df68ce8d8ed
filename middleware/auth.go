// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"badminton-club/logger"
	"badminton-club/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionUserKey is the session variable holding the signed-in user id.
const SessionUserKey = "userID"

// contextUserKey is where AuthRequired stores the resolved user.
const contextUserKey = "currentUser"

// UserLookup resolves a user id against the current club state.
type UserLookup func(id string) (models.User, bool)

// -------------- authentication middleware --------------

// AuthRequired ensures the session names a user that still exists. The user
// is resolved on every request so role changes and deletions apply at once.
//
//	api.Use(AuthRequired(lookup))
func AuthRequired(lookup UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(SessionUserKey).(string)

		if userID == "" {
			logger.Debug.Println("[AuthRequired] No user in session")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		user, ok := lookup(userID)
		if !ok {
			logger.Warn.Printf("[AuthRequired] Session user %s no longer exists; clearing session", userID)
			session.Clear()
			_ = session.Save()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthRequired.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
