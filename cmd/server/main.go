package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyflow-backend/internal/chat"
	"studyflow-backend/internal/config"
	"studyflow-backend/internal/database"
	"studyflow-backend/internal/handlers"
	"studyflow-backend/internal/middleware"
	"studyflow-backend/internal/repository"
	"studyflow-backend/internal/router"
	"studyflow-backend/internal/services"
	"studyflow-backend/internal/store"
	"studyflow-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting StudyFlow Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories & Stores ────
	userRepo := repository.NewUserRepo(pool)
	kv := store.NewRedisKV(redisClients.KV)
	historyStore := store.NewHistoryStore(kv)
	prefsStore := store.NewPrefsStore(kv)

	// ──── Step 5: Initialize Gemini Client ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs, redisClients.KV)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	youtubeService := services.NewYouTubeService()
	fileExtractService := services.NewFileExtractService()
	inputService := services.NewInputService(geminiService, youtubeService, fileExtractService)
	videoService := services.NewVideoService(cfg.VideoModel, cfg.VideoPollSeconds, cfg.VideoMaxPollCount)
	keySelector := services.NewUserKeySelector(userRepo, cfg.GeminiAPIKey)
	generator := services.NewGenerator(geminiService, videoService, keySelector)
	authService := services.NewAuthService(userRepo, jwtAuth)

	chatManager := chat.NewManager(func(ctx context.Context, apiKey string) (chat.Client, error) {
		return chat.NewGeminiClient(ctx, apiKey)
	})

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	generateHandler := handlers.NewGenerateHandler(inputService, generator, historyStore)
	historyHandler := handlers.NewHistoryHandler(historyStore, generator, chatManager)
	chatHandler := handlers.NewChatHandler(historyStore, chatManager, keySelector)
	prefsHandler := handlers.NewPrefsHandler(prefsStore)
	userHandler := handlers.NewUserHandler(userRepo)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		generateHandler,
		historyHandler,
		chatHandler,
		prefsHandler,
		userHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Video generation blocks the request while the render job is
		// polled, so responses can take minutes.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyFlow Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
