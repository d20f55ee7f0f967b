package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"journowlAPI/handlers"
	"journowlAPI/internal/cache"
	"journowlAPI/internal/events"
	"journowlAPI/middleware"
	"journowlAPI/services"
)

var (
	dbPool                *pgxpool.Pool
	statsCache            *cache.Cache
	dispatcher            *events.Dispatcher
	progressService       *services.ProgressService
	achievementService    *services.AchievementService
	goalService           *services.GoalService
	xpService             *services.XPService
	leaderboardService    *services.LeaderboardService
	reconciliationService *services.ReconciliationService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	if err := services.EnsureSchema(ctx, dbPool); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	log.Println("Successfully connected to Postgres")

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		statsCache, err = cache.New(redisURL, 30*time.Second)
		if err != nil {
			log.Printf("Warning: Could not initialize redis cache: %v", err)
			statsCache = nil
		} else {
			log.Println("Redis cache initialized successfully")
		}
	}

	dispatcher = events.NewDispatcher(3)
	dispatcher.Register(events.LogPublisher{})

	achievementService = services.NewAchievementService(dbPool)
	goalService = services.NewGoalService(dbPool)
	xpService = services.NewXPService(dbPool)
	progressService = services.NewProgressService(dbPool, achievementService, goalService, xpService, dispatcher, statsCache)
	leaderboardService = services.NewLeaderboardService(dbPool, statsCache)
	reconciliationService = services.NewReconciliationService(dbPool, statsCache)

	middleware.InitPrometheus()
	services.InitMetrics()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	progressHandler := handlers.NewProgressHandler(
		progressService,
		achievementService,
		goalService,
		xpService,
		leaderboardService,
		reconciliationService,
	)

	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()

	go middleware.CleanupVisitors()

	standardRouter.Use(middleware.RateLimitMiddleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))

	standardRouter.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "journowl-progress-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ServiceAuthMiddleware)

	protected.HandleFunc("/progress/leaderboard", progressHandler.GetLeaderboard).Methods("GET")
	protected.HandleFunc("/progress/{userID}/init", progressHandler.InitializeUserProgress).Methods("POST")
	protected.HandleFunc("/progress/{userID}/entries", progressHandler.RecordEntry).Methods("POST")
	protected.HandleFunc("/progress/{userID}/stats", progressHandler.GetStats).Methods("GET")
	protected.HandleFunc("/progress/{userID}/achievements", progressHandler.GetAchievements).Methods("GET")
	protected.HandleFunc("/progress/{userID}/goals", progressHandler.GetGoals).Methods("GET")
	protected.HandleFunc("/progress/{userID}/xp", progressHandler.GetXP).Methods("GET")
	protected.HandleFunc("/progress/{userID}/reconcile", progressHandler.Reconcile).Methods("POST")

	reconcileStop := make(chan struct{})
	reconciliationService.StartReconciliationJob(6*time.Hour, reconcileStop)

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Service-Key"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	close(reconcileStop)
	dispatcher.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if err := statsCache.Close(); err != nil {
		log.Printf("Cache close error: %v", err)
	}

	log.Println("Server shutdown complete")
}
