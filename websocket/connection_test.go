// file: websocket/connection_test.go

// Tests for the hub and connections. fakeConn stands in for a WSConn so the
// connection logic can be checked without network I/O; the last test dials a
// real httptest server.

package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	pingCaptured bool
}

func (fc *fakeConn) WriteMessage(messageType int, data []byte) error {
	if messageType == websocket.PingMessage {
		fc.pingCaptured = true
	}
	return nil
}

func (fc *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (fc *fakeConn) ReadMessage() (int, []byte, error) {
	return websocket.TextMessage, []byte(`{"action": "dummy"}`), nil
}

func (fc *fakeConn) Close() error { return nil }

func (fc *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 12345}
}

func (fc *fakeConn) SetReadLimit(limit int64) {}
func (fc *fakeConn) SetReadDeadline(t time.Time) error { return nil }
func (fc *fakeConn) SetPongHandler(h func(string) error) {}

type countingPublisher struct {
	last int
}

func (p *countingPublisher) TransitionApplied(string) {}
func (p *countingPublisher) TransitionRejected(string, string) {}
func (p *countingPublisher) SnapshotSaved(time.Duration) {}
func (p *countingPublisher) SnapshotSaveFailed() {}
func (p *countingPublisher) DashboardConnections(n int) { p.last = n }

func newTestConnection(h *Hub) *Connection {
	return &Connection{hub: h, conn: &fakeConn{}, send: make(chan []byte, 4), userID: "u1"}
}

// Test: register and unregister keep the count and the metric in step
func TestRegisterAndUnregisterConnection(t *testing.T) {
	pub := &countingPublisher{}
	h := NewHub(nil, pub)
	c := newTestConnection(h)

	h.register(c)
	assert.Equal(t, 1, h.Count())
	assert.Equal(t, 1, pub.last)

	h.unregister(c)
	assert.Equal(t, 0, h.Count())
	assert.Equal(t, 0, pub.last)

	_, open := <-c.send
	assert.False(t, open, "send channel should be closed")

	// second unregister is a no-op
	assert.NotPanics(t, func() { h.unregister(c) })
}

// Test: a ping from the client is answered with a pong
func TestHandleIncoming_Ping(t *testing.T) {
	h := NewHub(nil, nil)
	c := newTestConnection(h)
	h.register(c)

	c.handleIncoming(ClientMessage{Action: "ping"})

	var ev Event
	require.NoError(t, json.Unmarshal(<-c.send, &ev))
	assert.Equal(t, ActionPong, ev.Action)
}

// Test: messages for unregistered connections are dropped
func TestSendToUnregistered(t *testing.T) {
	h := NewHub(nil, nil)
	c := newTestConnection(h)
	assert.False(t, h.sendTo(c, []byte("x")))
}

// Test: enqueue drops instead of blocking on a full buffer
func TestEnqueueFullBuffer(t *testing.T) {
	c := &Connection{conn: &fakeConn{}, send: make(chan []byte, 1)}
	assert.True(t, c.enqueue([]byte("a")))
	assert.False(t, c.enqueue([]byte("b")))
}

// Test: StateChanged reaches every registered connection through Run
func TestStateChangedFansOut(t *testing.T) {
	h := NewHub(nil, nil)
	h.now = func() time.Time { return time.Date(2025, 1, 15, 19, 0, 0, 0, time.UTC) }
	c1, c2 := newTestConnection(h), newTestConnection(h)
	h.register(c1)
	h.register(c2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	h.StateChanged("CompleteSchedule", "s1")

	for _, c := range []*Connection{c1, c2} {
		select {
		case msg := <-c.send:
			var ev Event
			require.NoError(t, json.Unmarshal(msg, &ev))
			assert.Equal(t, ActionStateChanged, ev.Action)
			assert.Equal(t, "CompleteSchedule", ev.Operation)
			assert.Equal(t, "s1", ev.ScheduleID)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for broadcast")
		}
	}

	cancel()
	<-done
	assert.Equal(t, 0, h.Count())
}

// Test: origin checks follow the allowed list
func TestCheckOrigin(t *testing.T) {
	h := NewHub([]string{"https://club.example"}, nil)
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)

	req.Header.Set("Origin", "https://club.example")
	assert.True(t, h.upgrader.CheckOrigin(req))
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, h.upgrader.CheckOrigin(req))

	open := NewHub(nil, nil)
	assert.True(t, open.upgrader.CheckOrigin(req))
}

// Test: a real client receives state changes end to end
func TestServeWs_EndToEnd(t *testing.T) {
	h := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeWs(w, r, "u1")
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	h.StateChanged("AddSchedule", "")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "AddSchedule", ev.Operation)
}
