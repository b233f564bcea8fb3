// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adeolasoneye/mingle-backend/internal/auth"
	"github.com/adeolasoneye/mingle-backend/internal/common/database"
	"github.com/adeolasoneye/mingle-backend/internal/common/middleware"
	"github.com/adeolasoneye/mingle-backend/internal/config"
	"github.com/adeolasoneye/mingle-backend/internal/directory"
	"github.com/adeolasoneye/mingle-backend/internal/matching"
	"github.com/adeolasoneye/mingle-backend/internal/messaging"
	"github.com/adeolasoneye/mingle-backend/internal/notify"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Mingle Dating App API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration loaded and valid")

	// 3. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without Redis", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(db.DB); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Initialize user directory
	log.Println("\n👤 Step 6: Initializing user directory...")
	userDirectory := directory.NewPostgresDirectory(db)
	log.Println("✅ User directory initialized")

	// 7. Initialize Auth system
	log.Println("\n🔐 Step 7: Initializing authentication system...")
	authRepo := auth.NewPostgresRepository(db)
	authConfig := &auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		BCryptCost:         cfg.BCryptCost,
	}
	authService := auth.NewService(authRepo, redisClient, authConfig)
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication system initialized")

	// 8. Initialize Notification service
	log.Println("\n🔔 Step 8: Initializing notifications...")
	notifyService := notify.NewService(cfg, userDirectory)
	if cfg.EmailProvider == "sendgrid" {
		log.Println("   ✅ Using SendGrid for emails")
	} else {
		log.Println("   ⚠️  Using mock email provider (development mode)")
	}
	if cfg.SMSProvider == "twilio" {
		log.Println("   ✅ Using Twilio for SMS")
	} else {
		log.Println("   ⚠️  Using mock SMS provider (development mode)")
	}
	log.Println("✅ Notifications initialized")

	// 9. Initialize Matching module
	log.Println("\n💘 Step 9: Initializing Matching module...")
	matchingRepo := matching.NewPostgresRepository(db)
	countCache := matching.NewCountCache(redisClient)
	matchingService := matching.NewService(matchingRepo, userDirectory, countCache, notifyService, cfg.MatchPolicy)
	matchingHandler := matching.NewHandler(matchingService)
	adminService := matching.NewAdminService(matchingRepo, countCache)
	adminHandler := matching.NewAdminHandler(adminService)
	log.Printf("   - Match policy: %s", cfg.MatchPolicy)
	log.Println("✅ Matching module initialized")

	// 10. Initialize Messaging module
	log.Println("\n💬 Step 10: Initializing Messaging module...")
	messagingRepo := messaging.NewPostgresRepository(db)
	gate := messaging.NewGate(matchingService)
	presence := messaging.NewPresenceTracker(redisClient, cfg.PresenceTTL)
	hub := messaging.NewHub()
	go hub.Run()
	log.Println("   ✅ WebSocket hub started")

	messagingService := messaging.NewService(messagingRepo, gate, userDirectory, presence, hub, &messaging.Config{
		PageSize:         cfg.ConversationPageSize,
		MaxMessageLength: cfg.MaxMessageLength,
	})
	messagingHandler := messaging.NewHandler(messagingService, hub, presence)
	log.Println("✅ Messaging module initialized")

	// 11. Setup routes
	log.Println("\n🛣️  Step 11: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware)
	log.Println("   ✅ Auth routes registered")

	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	matching.RegisterAdminRoutes(router, adminHandler, authMiddleware)
	log.Println("   ✅ Matching routes registered")

	messaging.RegisterRoutes(router, messagingHandler, authMiddleware)
	log.Println("   ✅ Messaging routes registered")

	router.Use(middleware.RequestLogger)
	router.Use(corsMiddleware)

	// 12. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
