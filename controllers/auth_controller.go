// Package controllers controllers/auth_controller.go
package controllers

import (
	"net/http"

	"badminton-club/club"
	"badminton-club/fees"
	"badminton-club/logger"
	"badminton-club/middleware"
	"badminton-club/models"
	"badminton-club/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthController signs members in and out by phone number.
type AuthController struct {
	ClubService services.ClubServiceInterface
}

// NewAuthController creates an AuthController.
func NewAuthController(service services.ClubServiceInterface) *AuthController {
	return &AuthController{ClubService: service}
}

type registerRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

type loginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// ------------------ session handling ------------------

// Register creates a member account and signs it in.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ac.ClubService.Register(c.Request.Context(), req.Name, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	if !startSession(c, user) {
		return
	}

	logger.Info.Printf("[Register] Registered user %s", user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login signs in the user owning the phone number.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := ac.ClubService.Login(c.Request.Context(), req.Phone)
	if err != nil {
		logger.Warn.Printf("[Login] Login failed: %v", err)
		respondError(c, err)
		return
	}
	if !startSession(c, user) {
		return
	}

	logger.Info.Printf("[Login] User %s logged in", user.ID)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout clears the session. It succeeds even when nobody is signed in.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if userID, _ := session.Get(middleware.SessionUserKey).(string); userID != "" {
		ac.ClubService.Logout(c.Request.Context(), userID)
		logger.Info.Printf("[Logout] User %s logged out", userID)
	}

	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("[Logout] Error saving session during logout: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the signed-in user with their payment totals.
func (ac *AuthController) Me(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	payments := ac.ClubService.State().Payments
	unpaid := club.UnpaidTotal(payments, user.ID)
	c.JSON(http.StatusOK, gin.H{
		"user":            user,
		"unpaidTotal":     unpaid,
		"unpaidTotalText": fees.FormatVND(unpaid),
		"paidTotal":       club.PaidTotal(payments, user.ID),
	})
}

func startSession(c *gin.Context, user models.User) bool {
	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[startSession] Failed to save session for %s: %v", user.ID, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again."})
		return false
	}
	return true
}
