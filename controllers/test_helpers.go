// file: controllers/test_helpers.go
//go:build unit
// +build unit

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"badminton-club/club"
	"badminton-club/middleware"
	"badminton-club/services"
	"badminton-club/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// setupTestRouter creates a new Gin engine with session middleware.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Set up sessions with cookie store.
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))
	return router
}

// newTestClub returns a club service over the seed data with a fixed clock
// and sequential ids.
func newTestClub(t *testing.T) *services.ClubService {
	t.Helper()
	n := 0
	svc := services.NewClubService(services.ClubServiceOptions{
		Store: storage.NewMemoryStore(),
		Env: club.Env{
			Now: func() time.Time { return time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC) },
			NewID: func() string {
				n++
				return fmt.Sprintf("id-%d", n)
			},
		},
	})
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

// setupAPIRouter mounts every route over service.
func setupAPIRouter(t *testing.T, service services.ClubServiceInterface) *gin.Engine {
	t.Helper()
	router := setupTestRouter(t)
	RegisterRoutes(router, Dependencies{ClubService: service, ApplicationURL: "https://club.example"})
	return router
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	// Create a helper route for setting session values.
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	// Call the helper route.
	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Extract and return the session cookie.
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "testsession" {
			return cookie
		}
	}
	return nil
}

// signIn returns a session cookie for userID.
func signIn(t *testing.T, router *gin.Engine, userID string) *http.Cookie {
	t.Helper()
	c := SetSession(router, "/test-session/"+userID, map[string]interface{}{
		middleware.SessionUserKey: userID,
	})
	require.NotNil(t, c, "Session cookie not found")
	return c
}

// doJSON sends body as JSON and returns the recorded response.
func doJSON(router *gin.Engine, method, path string, body interface{}, c *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c != nil {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
