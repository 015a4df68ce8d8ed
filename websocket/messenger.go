// file: websocket/messenger.go
package websocket

import (
	"time"

	"badminton-club/logger"
)

// Actions sent to dashboards.
const (
	ActionStateChanged = "stateChanged"
	ActionPong         = "pong"
)

// Event tells dashboards that the club state changed and they should refetch.
type Event struct {
	Action     string    `json:"action"`
	Operation  string    `json:"operation,omitempty"`
	ScheduleID string    `json:"scheduleId,omitempty"`
	At         time.Time `json:"at"`
}

// Messenger is an interface for broadcasting state changes.
type Messenger interface {
	StateChanged(operation, scheduleID string)
}

// StateChanged broadcasts that operation was applied.
func (h *Hub) StateChanged(operation, scheduleID string) {
	h.queue(Event{
		Action:     ActionStateChanged,
		Operation:  operation,
		ScheduleID: scheduleID,
		At:         h.now(),
	})
	logger.Debug.Printf("[Hub.StateChanged] queued %s (schedule=%q)", operation, scheduleID)
}

// NopMessenger drops every notification.
type NopMessenger struct{}

func (NopMessenger) StateChanged(string, string) {}
