package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inzichtCoachAPI/handlers"
	"inzichtCoachAPI/internal/config"
	"inzichtCoachAPI/internal/metrics"
	"inzichtCoachAPI/internal/notification"
	"inzichtCoachAPI/internal/workers"
	"inzichtCoachAPI/middleware"
	"inzichtCoachAPI/services"
)

type app struct {
	cfg                 *config.Config
	dbPool              *pgxpool.Pool
	userService         *services.UserService
	dailyLogService     *services.DailyLogService
	achievementService  *services.AchievementService
	pointsService       *services.PointsService
	notificationService *services.NotificationService
	progressService     *services.ProgressService
	rateLimiter         *middleware.RateLimiter
}

func newPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = cfg.DBMaxConns
	poolConfig.MinConns = cfg.DBMinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func setup(cfg *config.Config) *app {
	clerk.SetKey(cfg.ClerkSecretKey)
	log.Println("Clerk initialized successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbPool, err := newPool(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	log.Println("Successfully connected to database")

	a := &app{
		cfg:                 cfg,
		dbPool:              dbPool,
		userService:         services.NewUserService(dbPool, cfg.DefaultDailyGoal),
		dailyLogService:     services.NewDailyLogService(dbPool),
		achievementService:  services.NewAchievementService(dbPool),
		pointsService:       services.NewPointsService(dbPool),
		notificationService: services.NewNotificationService(dbPool),
		rateLimiter:         middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	fcmService, err := notification.NewFCMService(context.Background(), cfg.FCMCredentialsFile)
	if err != nil {
		log.Printf("Warning: Could not initialize FCM: %v", err)
	} else {
		a.notificationService.SetPushProvider(fcmService)
		log.Println("FCM Push Provider initialized successfully")
	}

	a.progressService = services.NewProgressService(
		a.dailyLogService,
		a.userService,
		a.achievementService,
		a.pointsService,
		services.NewActivityService(dbPool),
		a.notificationService,
	)

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	metrics.Register(prometheus.DefaultRegisterer)

	return a
}

func (a *app) router() http.Handler {
	healthHandler := handlers.NewHealthHandler(a.dbPool)
	webhookHandler := handlers.NewWebhookHandler(a.userService, a.cfg.ClerkWebhookSecret)
	userHandler := handlers.NewUserHandler(a.userService, a.progressService)
	dailyLogHandler := handlers.NewDailyLogHandler(a.userService, a.dailyLogService, a.progressService)
	progressHandler := handlers.NewProgressHandler(a.userService, a.progressService, a.pointsService)
	achievementHandler := handlers.NewAchievementHandler(a.userService, a.achievementService)
	notificationHandler := handlers.NewNotificationHandler(a.userService, a.notificationService)

	r := mux.NewRouter()
	r.Use(a.rateLimiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(a.cfg.MetricsUser, a.cfg.MetricsPass)(promhttp.Handler())).Methods("GET")
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/profile", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/profile/daily-goal", userHandler.UpdateDailyGoal).Methods("PUT")

	protected.HandleFunc("/logs", dailyLogHandler.UpsertDailyLog).Methods("POST")
	protected.HandleFunc("/logs", dailyLogHandler.ListDailyLogs).Methods("GET")
	protected.HandleFunc("/logs/today", dailyLogHandler.GetTodayLog).Methods("GET")
	protected.HandleFunc("/logs/{id}", dailyLogHandler.DeleteDailyLog).Methods("DELETE")

	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress/weekly", progressHandler.GetWeeklyStats).Methods("GET")
	protected.HandleFunc("/points", progressHandler.GetPoints).Methods("GET")

	protected.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/badges/definitions", achievementHandler.GetDefinitions).Methods("GET")

	protected.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")

	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
	return corsHandler(r)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	a := setup(cfg)
	defer func() {
		log.Println("Closing database connection pool...")
		a.dbPool.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.rateLimiter.CleanupVisitors(ctx)
	if cfg.ReminderHour >= 0 {
		go workers.NewDailyReminder(a.notificationService, cfg.ReminderHour).Start(ctx)
	}

	server := http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	a.notificationService.Close()

	log.Println("Server shutdown complete")
}
