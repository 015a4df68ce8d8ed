// file: controllers/responses.go
package controllers

import (
	"errors"
	"net/http"

	"badminton-club/logger"
	"badminton-club/middleware"
	"badminton-club/models"
	"badminton-club/validator"

	"github.com/gin-gonic/gin"
)

// statusFor maps a domain error code to its HTTP status.
func statusFor(code models.Code) int {
	switch code {
	case models.CodeForbidden:
		return http.StatusForbidden
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeDuplicatePhone, models.CodeAlreadyCompleted:
		return http.StatusConflict
	case models.CodeInvalidAmount, models.CodeInvalidQuantity, models.CodeInvalidPrice,
		models.CodeEmptyDescription, models.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code"} with the matching status.
func respondError(c *gin.Context, err error) {
	code := models.CodeOf(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		logger.Error.Printf("[%s %s] unexpected error: %v", c.Request.Method, c.FullPath(), err)
	}
	body := gin.H{"error": err.Error(), "code": string(code)}
	var e *models.Error
	if errors.As(err, &e) && len(e.Metadata) > 0 {
		body["metadata"] = e.Metadata
	}
	c.AbortWithStatusJSON(status, body)
}

// respondBindError reports a request body or query that failed binding.
func respondBindError(c *gin.Context, err error) {
	logger.Debug.Printf("[%s %s] invalid request: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  "Invalid request",
		"code":   string(models.CodeInvalidInput),
		"fields": validator.ParseError(err),
	})
}

// actor returns the signed-in user resolved by middleware.AuthRequired.
func actor(c *gin.Context) (models.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return u, ok
}
