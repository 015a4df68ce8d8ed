// Package controllers file: controllers/routes.go
package controllers

import (
	"badminton-club/middleware"
	"badminton-club/models"
	"badminton-club/services"
	"badminton-club/websocket"

	"github.com/gin-gonic/gin"
)

// Dependencies are what the HTTP handlers are built from. Hub may be nil,
// in which case /ws is not served.
type Dependencies struct {
	ClubService    services.ClubServiceInterface
	Hub            *websocket.Hub
	ApplicationURL string
}

// RegisterRoutes mounts the health check, the JSON API and the dashboard websocket.
// The router must already carry the session middleware.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	svc := deps.ClubService
	lookup := func(id string) (models.User, bool) {
		return svc.State().User(id)
	}

	auth := NewAuthController(svc)
	schedules := NewScheduleController(svc, deps.ApplicationURL)
	payments := NewPaymentController(svc)
	admin := NewAdminController(svc)

	router.GET("/health", Health(svc))

	api := router.Group("/api")
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", auth.Logout)

	// Protected routes
	protected := api.Group("/", middleware.AuthRequired(lookup))
	{
		protected.GET("/me", auth.Me)

		protected.GET("/schedules", schedules.List)
		protected.GET("/schedules/:id", schedules.Get)
		protected.POST("/schedules/:id/votes", schedules.Vote)
		protected.GET("/schedules/:id/qrcode", schedules.QRCode)

		protected.GET("/payments", payments.List)
		protected.PUT("/payments/:id", payments.Update)
		protected.GET("/transactions", payments.Transactions)
	}

	// Admin routes
	adminOnly := protected.Group("/", middleware.AdminRequired())
	{
		adminOnly.POST("/schedules", schedules.Create)
		adminOnly.DELETE("/schedules/:id/votes/:userId", schedules.RemoveVote)
		adminOnly.POST("/schedules/:id/guests", schedules.AddGuest)
		adminOnly.POST("/schedules/:id/guests/:guestId/payment", schedules.ToggleGuestPayment)
		adminOnly.POST("/schedules/:id/complete", schedules.Complete)

		adminOnly.GET("/members", admin.Members)
		adminOnly.POST("/members/monthly-fee", admin.SetMonthlyFee)
		adminOnly.DELETE("/members/:id/monthly-fee", admin.ClearMonthlyFee)
		adminOnly.DELETE("/members/:id", admin.DeleteMember)

		adminOnly.POST("/transactions", payments.AddTransaction)
	}

	if deps.Hub != nil {
		router.GET("/ws", middleware.AuthRequired(lookup), Dashboard(deps.Hub))
	}
}
