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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/agentboard/backend/api"
	"github.com/agentboard/backend/backend"
	"github.com/agentboard/backend/config"
	"github.com/agentboard/backend/policy"
	"github.com/agentboard/backend/remote"
	"github.com/agentboard/backend/store"
	"github.com/agentboard/backend/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}

	log.Printf("Starting agentboard backend...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	if cfg.RemoteEnabled() {
		log.Printf("Orchestrator URL: %s (remote session backend)", cfg.OrchestratorURL)
	}
	if cfg.UpgradeDatabase {
		log.Printf("Database schema upgrade enabled")
	}

	ctx := context.Background()

	if cfg.Telemetry {
		shutdownTelemetry, err := telemetry.Init(ctx, "logs")
		if err != nil {
			log.Fatalf("Failed to initialize telemetry: %v", err)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(flushCtx); err != nil {
				log.Printf("Failed to shutdown telemetry: %v", err)
			}
		}()
	}

	// Initialize store. User records live here even when the session
	// surface is served remotely.
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Select the session backend once at startup.
	var sessions backend.SessionBackend
	if cfg.RemoteEnabled() {
		sessions = backend.NewRemote(remote.NewClient(cfg.OrchestratorURL))
	} else {
		policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
		if err != nil {
			log.Fatalf("Failed to initialize policy engine: %v", err)
		}
		sessions = backend.NewLocal(db, policyEngine)
	}

	// Initialize handler
	h := api.NewHandler(sessions, db, cfg)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down backend...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Backend stopped")
}
