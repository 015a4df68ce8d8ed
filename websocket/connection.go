// Package websocket pushes club change notifications to connected dashboards.
// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"badminton-club/logger"

	"github.com/gorilla/websocket"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket connection for one signed-in user.
type Connection struct {
	hub    *Hub
	conn   WSConn
	send   chan []byte
	userID string
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// ClientMessage is the JSON a dashboard may send.
type ClientMessage struct {
	Action string `json:"action"`
}

// ServeWs upgrades the HTTP request and starts the read and write pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, userID string) {
	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v, user=%q", r.RemoteAddr, userID)
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		hub:    h,
		conn:   wsConn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
	}
	h.register(c)

	go c.readPump()
	go c.writePump()
}

// readPump handles inbound messages from the client.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			break
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var cm ClientMessage
		if err := json.Unmarshal(message, &cm); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		c.handleIncoming(cm)
	}
}

// handleIncoming answers client messages. Dashboards only ever ping.
func (c *Connection) handleIncoming(cm ClientMessage) {
	switch cm.Action {
	case "ping":
		out, _ := json.Marshal(Event{Action: ActionPong, At: c.hub.now()})
		c.hub.sendTo(c, out)
	default:
		logger.Debug.Printf("[handleIncoming] Unhandled action %q from user %s", cm.Action, c.userID)
	}
}

// enqueue queues a message without blocking; a full buffer drops it.
func (c *Connection) enqueue(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logger.Warn.Printf("Dropping message for connection %v", c.conn.RemoteAddr())
		return false
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				logger.Debug.Printf("[writePump] Send channel closed for %v", c.conn.RemoteAddr())
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}
