//go:build integration
// +build integration

// integration/connection_test.go
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"badminton-club/controllers"
	"badminton-club/services"
	"badminton-club/storage"
	clubws "badminton-club/websocket"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestServer serves the full API over a memory store with a running hub.
func startTestServer(t *testing.T) (*httptest.Server, *clubws.Hub, storage.SnapshotStore) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := storage.NewMemoryStore()
	hub := clubws.NewHub(nil, nil)
	go hub.Run(ctx)

	svc := services.NewClubService(services.ClubServiceOptions{Store: store, Messenger: hub})
	require.NoError(t, svc.Load(ctx))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sessions.Sessions("testsession", cookie.NewStore([]byte("test-secret"))))
	controllers.RegisterRoutes(router, controllers.Dependencies{ClubService: svc, Hub: hub})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub, store
}

// newClient returns an HTTP client that keeps its own session.
func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func post(t *testing.T, client *http.Client, server *httptest.Server, path, body string) map[string]interface{} {
	t.Helper()
	resp, err := client.Post(server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Less(t, resp.StatusCode, 300, "POST %s returned %d", path, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func dialDashboard(t *testing.T, client *http.Client, server *httptest.Server) *websocket.Conn {
	t.Helper()
	u, _ := url.Parse(server.URL)
	header := http.Header{}
	for _, c := range client.Jar.Cookies(u) {
		header.Add("Cookie", c.String())
	}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", header)
	require.NoError(t, err, "WebSocket connection should succeed")
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// awaitEvent reads until an event matches. Sign-ins made before the
// dashboard connected may still be in flight and are skipped.
func awaitEvent(t *testing.T, conn *websocket.Conn, match func(clubws.Event) bool) clubws.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var ev clubws.Event
		require.NoError(t, conn.ReadJSON(&ev))
		if match(ev) {
			return ev
		}
	}
}

func operation(op string) func(clubws.Event) bool {
	return func(ev clubws.Event) bool { return ev.Operation == op }
}

// TestSessionLifecycle_OverHTTP runs a whole session: schedule, votes and
// completion, with every change pushed to a dashboard.
func TestSessionLifecycle_OverHTTP(t *testing.T) {
	server, hub, store := startTestServer(t)

	admin := newClient(t)
	post(t, admin, server, "/api/auth/login", `{"phone":"0123456789"}`)
	member := newClient(t)
	post(t, member, server, "/api/auth/login", `{"phone":"0912345678"}`)

	conn := dialDashboard(t, admin, server)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	created := post(t, admin, server, "/api/schedules", `{"courtName":"Sân XYZ","playDate":"2025-02-01","playTime":"18:00"}`)
	id := created["schedule"].(map[string]interface{})["id"].(string)
	awaitEvent(t, conn, operation("AddSchedule"))

	post(t, member, server, "/api/schedules/"+id+"/votes", `{"attending":true}`)
	ev := awaitEvent(t, conn, operation("CastVote"))
	assert.Equal(t, clubws.ActionStateChanged, ev.Action)
	assert.Equal(t, id, ev.ScheduleID)

	done := post(t, admin, server, "/api/schedules/"+id+"/complete", `{"quantity":10,"pricePerShuttlecock":15000}`)
	assert.Equal(t, true, done["schedule"].(map[string]interface{})["completed"])
	awaitEvent(t, conn, operation("CompleteSchedule"))

	resp, err := member.Get(server.URL + "/api/payments")
	require.NoError(t, err)
	defer resp.Body.Close()
	var payments struct {
		UnpaidTotal int64 `json:"unpaidTotal"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payments))
	assert.Equal(t, int64(100000), payments.UnpaidTotal)

	data, err := store.Load(context.Background(), "badmintonApp")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"completed":true`)
}

// TestPingPong checks the dashboard keepalive message.
func TestPingPong(t *testing.T) {
	server, _, _ := startTestServer(t)
	client := newClient(t)
	post(t, client, server, "/api/auth/login", `{"phone":"0912345678"}`)
	conn := dialDashboard(t, client, server)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))
	ev := awaitEvent(t, conn, func(ev clubws.Event) bool { return ev.Action == clubws.ActionPong })
	assert.False(t, ev.At.IsZero())
}

// TestDashboard_RequiresSession checks that anonymous upgrades are refused.
func TestDashboard_RequiresSession(t *testing.T) {
	server, _, _ := startTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
