package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dormops-backend/config"
	"dormops-backend/internal/ai"
	"dormops-backend/internal/api"
	"dormops-backend/internal/auth"
	"dormops-backend/internal/db"
	"dormops-backend/internal/email"
	"dormops-backend/internal/notification"
	"dormops-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	logger := log.New(os.Stdout, "dormops ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatalf("JWT_SECRET must be set")
	}
	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpushOptions)
	pool.Start(ctx)

	sender := email.NewSender(&cfg.Email)
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenLifetime)

	var organizer *ai.Client
	if cfg.Organizer.APIKey != "" {
		organizer = ai.NewClient(&cfg.Organizer)
		logger.Println("event organizer assistant enabled")
	} else {
		logger.Println("ORGANIZER_API_KEY not set, organizer endpoints disabled")
	}

	handler := api.NewHandler(appStore, jwtManager, organizer, &cfg.Organizer, &cfg.Push, sender, pool)
	router := api.NewRouter(cfg, handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
