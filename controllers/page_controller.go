// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"

	"badminton-club/logger"
	"badminton-club/services"
	"badminton-club/websocket"

	"github.com/gin-gonic/gin"
)

// Health reports liveness. A failed last save turns the status to degraded
// without failing the probe.
func Health(service services.ClubServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.LastSaveError(); err != nil {
			logger.Warn.Printf("Health: last snapshot save failed: %v", err)
			c.JSON(http.StatusOK, gin.H{"status": "degraded", "lastSaveError": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// Dashboard upgrades to the websocket that pushes state change events.
func Dashboard(hub *websocket.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := actor(c)
		if !ok {
			return
		}
		hub.ServeWs(c.Writer, c.Request, user.ID)
	}
}
