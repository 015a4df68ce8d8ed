// Package controllers provides HTTP handlers for various admin operations.
// File: controllers/admin_controller.go
package controllers

import (
	"net/http"

	"badminton-club/club"
	"badminton-club/logger"
	"badminton-club/services"

	"github.com/gin-gonic/gin"
)

// ---------------- Admin Controller ----------------

// AdminController manages members and their monthly fees.
type AdminController struct {
	ClubService services.ClubServiceInterface
}

// NewAdminController initializes a new instance of AdminController
func NewAdminController(service services.ClubServiceInterface) *AdminController {
	return &AdminController{ClubService: service}
}

type monthlyFeeRequest struct {
	UserIDs []string `json:"userIds" binding:"required,min=1"`
	Amount  int64    `json:"amount"`
}

// ---------------- member management ----------------

// Members lists non-admin users split by how they pay.
func (ac *AdminController) Members(c *gin.Context) {
	c.JSON(http.StatusOK, club.PartitionMembers(ac.ClubService.State().Users))
}

// SetMonthlyFee marks the given members as having paid a monthly fee.
// Requires `userIds` (at least one) and a positive `amount` in the body.
func (ac *AdminController) SetMonthlyFee(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	var req monthlyFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := ac.ClubService.SetMonthlyFee(c.Request.Context(), admin.ID, req.UserIDs, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	logger.Info.Printf("[SetMonthlyFee] %s set monthly fee %d for %d members", admin.ID, req.Amount, len(req.UserIDs))
	c.JSON(http.StatusOK, club.PartitionMembers(ac.ClubService.State().Users))
}

// ClearMonthlyFee moves a member back to per-session fees.
func (ac *AdminController) ClearMonthlyFee(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	if err := ac.ClubService.ClearMonthlyFee(c.Request.Context(), admin.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, club.PartitionMembers(ac.ClubService.State().Users))
}

// DeleteMember removes a user. Their votes and payments stay on record.
func (ac *AdminController) DeleteMember(c *gin.Context) {
	admin, ok := actor(c)
	if !ok {
		return
	}
	userID := c.Param("id")
	if err := ac.ClubService.DeleteUser(c.Request.Context(), admin.ID, userID); err != nil {
		respondError(c, err)
		return
	}
	logger.Info.Printf("[DeleteMember] %s deleted user %s", admin.ID, userID)
	c.Status(http.StatusNoContent)
}
