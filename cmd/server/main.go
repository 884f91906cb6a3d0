package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/galihvsx/better-commuline-api/internal/config"
	"github.com/galihvsx/better-commuline-api/internal/handlers"
	"github.com/galihvsx/better-commuline-api/internal/krl"
	"github.com/galihvsx/better-commuline-api/internal/logger"
	"github.com/galihvsx/better-commuline-api/internal/services"
	"github.com/galihvsx/better-commuline-api/internal/store"
	"github.com/galihvsx/better-commuline-api/internal/syncer"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize upstream client; the limiter paces every outbound call.
	client := krl.NewClient(cfg.BaseURL, cfg.Token)
	client.SetLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	// Initialize sync subsystem
	engine := syncer.NewEngine(db, client, cfg, appLogger)
	orch := syncer.NewOrchestrator(db, client, engine, cfg, appLogger)

	// Initialize Services
	scheduleService := services.NewScheduleService(db, appLogger)
	referenceService := services.NewReferenceService(db)
	fareService := services.NewFareService(client)

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	limiter := handlers.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Close()
	r.Use(limiter.RateLimit)

	// Routes
	h := handlers.NewHandler(scheduleService, referenceService, fareService, orch, appLogger)
	h.RegisterRoutes(r)

	// Periodic sync when configured
	if cfg.SyncInterval > 0 {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		go func() {
			for range ticker.C {
				if err := orch.Run(context.Background()); err != nil {
					appLogger.Error("Scheduled sync failed", "error", err)
				}
			}
		}()
	}

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
