// file: websocket/broadcast.go
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"badminton-club/logger"
	"badminton-club/metrics"

	"github.com/gorilla/websocket"
)

// Hub tracks live dashboard connections and fans events out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]bool
	broadcast   chan []byte
	upgrader    websocket.Upgrader
	metrics     metrics.Publisher
	now         func() time.Time
}

// NewHub builds a hub accepting upgrades from allowedOrigins. An empty list
// accepts any origin.
func NewHub(allowedOrigins []string, pub metrics.Publisher) *Hub {
	if pub == nil {
		pub = metrics.Noop{}
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan []byte, 256),
		metrics:     pub,
		now:         time.Now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// Run distributes queued broadcasts until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.connections {
				c.enqueue(msg)
			}
			h.mu.RUnlock()
		}
	}
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	h.connections[c] = true
	n := len(h.connections)
	h.mu.Unlock()
	h.metrics.DashboardConnections(n)
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	if _, ok := h.connections[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.connections, c)
	close(c.send)
	n := len(h.connections)
	h.mu.Unlock()
	h.metrics.DashboardConnections(n)
}

// sendTo queues msg for one connection if it is still registered.
func (h *Hub) sendTo(c *Connection, msg []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[c] {
		return false
	}
	return c.enqueue(msg)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.connections {
		delete(h.connections, c)
		close(c.send)
	}
}

// queue marshals v and hands it to Run without blocking the caller.
func (h *Hub) queue(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		logger.Error.Printf("Error marshalling broadcast: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		logger.Warn.Printf("Broadcast queue full; dropping %s", msg)
	}
}
