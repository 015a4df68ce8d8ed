// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"badminton-club/config"
	"badminton-club/controllers"
	"badminton-club/logger"
	"badminton-club/metrics"
	"badminton-club/services"
	"badminton-club/storage/driver"
	"badminton-club/websocket"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "clubsession"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.InitLogger(cfg.LogDir); err != nil {
		log.Printf("Failed to open log file, logging to stdout only: %v", err)
	}
	logger.SetLogLevel(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error.Fatalf("[main] %v", err)
	}
}

// run wires storage, metrics, the dashboard hub and the HTTP server, then
// serves until ctx is cancelled.
func run(ctx context.Context, cfg config.Config) error {
	store, err := driver.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn.Printf("[main] Closing snapshot store: %v", err)
		}
	}()

	pub := newPublisher(cfg)
	hub := websocket.NewHub(cfg.AllowedOrigins, pub)
	go hub.Run(ctx)

	svc := services.NewClubService(services.ClubServiceOptions{
		Store:     store,
		Slot:      cfg.SnapshotSlot,
		Messenger: hub,
		Metrics:   pub,
	})
	if err := svc.Load(ctx); err != nil {
		logger.Warn.Printf("[main] Starting from seed data: %v", err)
	}

	router := newRouter(cfg, controllers.Dependencies{
		ClubService:    svc,
		Hub:            hub,
		ApplicationURL: cfg.ApplicationURL,
	})
	var handler http.Handler = router
	if cfg.TracingEnabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer("badminton-club"), router)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("[main] Listening on %s (env=%s, storage=%s)", srv.Addr, cfg.Env, cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info.Println("[main] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newPublisher returns the CloudWatch publisher when metrics are enabled and
// reachable, otherwise a no-op.
func newPublisher(cfg config.Config) metrics.Publisher {
	if !cfg.MetricsEnabled {
		return metrics.Noop{}
	}
	cw, err := metrics.NewCloudWatch(cfg.MetricsNamespace)
	if err != nil {
		logger.Warn.Printf("[main] CloudWatch unavailable, metrics disabled: %v", err)
		return metrics.Noop{}
	}
	return cw
}

// newRouter builds the gin engine with CORS, cookie sessions and every route.
func newRouter(cfg config.Config, deps controllers.Dependencies) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Info.Writer()), gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Initialize session store
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30, // 30 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	controllers.RegisterRoutes(router, deps)
	return router
}
