package cmd

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sangkumfund/config"
	"sangkumfund/internal/api"
	"sangkumfund/internal/apiclient"
	"sangkumfund/internal/dashboard"
	"sangkumfund/internal/handlers"
	"sangkumfund/internal/services"
	"sangkumfund/internal/status"
	_ "sangkumfund/migrations"
	"sangkumfund/models"
	"sangkumfund/monitoring"
	"sangkumfund/security"
	"sangkumfund/utils"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go/v7"
	"github.com/redis/go-redis/v9"
)

func Start() error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg := config.LoadConfig()
	config.InitLogger(cfg.Environment)

	app := pocketbase.New()
	if len(os.Args) < 2 {
		app.RootCmd.SetArgs([]string{"serve", "--http", "0.0.0.0:" + cfg.Port})
	}

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	monitor := monitoring.NewMonitor()

	// Backend client
	auth := apiclient.NewAuthContext(apiclient.NewRedisTokenStore(redisClient, cfg.TokenKey))
	client := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
	}, auth, apiclient.WithObserver(monitor.TrackBackendRequest))
	svc := api.NewServices(client, auth)

	// Dashboard
	cache := dashboard.NewRedisSnapshotCache(redisClient, cfg.SnapshotKey, cfg.SnapshotTTL)
	sinks := []dashboard.Sink{cache}
	if cfg.PubNubPublishKey != "" {
		pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUserID))
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey

		sinks = append(sinks, dashboard.NewPubNubPublisher(pubnub.NewPubNub(pnConfig), cfg.PubNubChannel))
	}

	aggregator := dashboard.NewAggregator(
		dashboard.NewAPIReader(svc.Admin, svc.Notifications, svc.Articles, cfg.NotificationPage),
		dashboard.WithMonitor(monitor),
		dashboard.WithSinks(sinks...),
		dashboard.WithBreakerSettings(cfg.Breaker),
	)
	poller := dashboard.NewPoller(aggregator, cfg.RefreshInterval, monitor)

	// Initialize services
	auditService := services.NewAuditService(app)
	sessionService := services.NewSessionService(auth, svc.Auth, models.Credentials{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, monitor)
	actions := dashboard.NewActions(svc, aggregator, auditService, monitor)

	// Initialize handlers
	rateLimiter := security.NewRateLimiter(redisClient, cfg.RateLimit, time.Minute)
	dashboardHandler := handlers.NewDashboardHandler(aggregator, actions, auditService)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.IsDevelopment(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	go handleShutdown(cancel)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		restoreSnapshot(ctx, cache, aggregator)

		if err := sessionService.EnsureLogin(ctx); err != nil {
			if errors.Is(err, status.ErrNotLoggedIn) {
				slog.Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, using stored token only")
			} else {
				slog.Error("initial sign-in failed", "error", err)
			}
		}
		go sessionService.Watch(ctx)
		poller.Start(ctx)

		dashboardHandler.Register(e,
			rateLimiter.Limit("console"),
			handlers.RequireConsoleKey(cfg.ConsoleKeyHash),
		)

		if cfg.EnableMetrics {
			e.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			return healthCheck(e, redisClient, aggregator)
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		poller.Stop()
		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// restoreSnapshot serves the last cached snapshot until the first refresh
// completes.
func restoreSnapshot(ctx context.Context, cache *dashboard.RedisSnapshotCache, aggregator *dashboard.Aggregator) {
	snap, err := cache.Load(ctx)
	switch {
	case errors.Is(err, status.ErrCacheMiss):
		log.Println("No cached dashboard snapshot")
		return
	case err != nil:
		slog.Error("Failed to load cached snapshot", "error", err)
		return
	}

	if aggregator.Restore(snap) {
		slog.Info("Restored cached dashboard snapshot", "fetched_at", snap.FetchedAt)
	}
}

func healthCheck(e *core.RequestEvent, redisClient *redis.Client, aggregator *dashboard.Aggregator) error {
	if err := utils.RedisHealthCheck(redisClient); err != nil {
		return e.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	body := map[string]any{"status": "healthy"}
	if snap, err := aggregator.Current(); err == nil {
		body["snapshot_seq"] = snap.Seq
		body["snapshot_at"] = snap.FetchedAt
		body["degraded"] = snap.Degraded
	}
	return e.JSON(http.StatusOK, body)
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
