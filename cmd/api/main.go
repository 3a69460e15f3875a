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

	"gorm.io/gorm"

	"robolab/internal/config"
	"robolab/internal/database"
	"robolab/internal/metrics"
	"robolab/internal/repository"
	"robolab/internal/server"
	"robolab/internal/services"
	"robolab/internal/worker"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
	statsInterval   = 15 * time.Second
)

func main() {
	log.SetPrefix("[API] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting %s v%s", cfg.App.Name, cfg.App.Version)
	log.Printf("Environment: debug=%v, port=%s, host=%s", cfg.App.Debug, cfg.App.Port, cfg.App.Host)

	// Initialize database
	log.Println("Initializing database connection...")
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		log.Println("Closing database connections...")
		if err := database.Close(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Background notification queue; drained after the HTTP server stops
	queue := worker.NewQueue(cfg.Queue.Size, cfg.Queue.Workers, cfg.Queue.TaskTimeout)
	defer queue.Close()

	// Create service instances
	log.Println("Initializing services...")
	repo := repository.NewGormRepository(db)
	dispatcher := services.NewDispatcher(&cfg.Notify, queue, services.NewChannels(&cfg.Notify))

	handler := server.NewHandler(cfg, server.Services{
		Inquiries: services.NewInquiryService(repo, dispatcher),
		Admin:     services.NewAdminService(repo),
		Health:    services.NewHealthService(cfg.App.Name),
	})

	// Create HTTP server with timeouts
	addr := fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorLog:     log.New(os.Stderr, "[HTTP] ", log.LstdFlags),
	}

	statsCtx, stopStats := context.WithCancel(context.Background())
	defer stopStats()
	go reportDBStats(statsCtx, db)

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Printf("Server failed to start: %v", err)
		return
	case sig := <-shutdown:
		log.Printf("Received signal: %v. Starting graceful shutdown...", sig)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Error during graceful shutdown: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			log.Println("Shutdown timeout exceeded, forcing close...")
			_ = httpServer.Close()
		}
	}

	log.Println("Server shutdown complete")
}

// reportDBStats publishes connection pool gauges until ctx is done
func reportDBStats(ctx context.Context, db *gorm.DB) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := database.GetStats(db)
			if err != nil {
				log.Printf("[DB] Failed to read pool stats: %v", err)
				continue
			}
			metrics.UpdateDBConnections(stats.InUse, stats.Idle)
		}
	}
}
