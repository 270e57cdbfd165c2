package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maroso-log/devtrack/internal/config"
	"github.com/maroso-log/devtrack/internal/handlers"
	"github.com/maroso-log/devtrack/internal/services/auth"
	"github.com/maroso-log/devtrack/internal/services/process"
	"github.com/maroso-log/devtrack/internal/services/stock"
	"github.com/maroso-log/devtrack/internal/services/upload"
	"github.com/maroso-log/devtrack/internal/sheetdb"
	ws "github.com/maroso-log/devtrack/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Open the spreadsheet-backed record store
	store, err := sheetdb.Open(context.Background(), cfg.Sheet)
	if err != nil {
		log.Fatalf("Failed to open record store: %v", err)
	}
	if store.Mutator.Writable() {
		log.Println("✅ Sheet: write path ready")
	}

	// 3. Wire services
	processService := process.NewService(store.Loader, store.Mutator, store.IDs)
	stockService := stock.NewService(store.Loader)
	authService := auth.NewService(store.Loader, cfg.JWTSecret)
	uploadClient := upload.NewClient(cfg.Media)

	// 4. Start the live event hub
	hub := ws.NewHub()
	go hub.Run()

	// 5. Set up HTTP router
	router := handlers.NewRouter(handlers.Deps{
		Store:     store,
		Processes: processService,
		Stock:     stockService,
		Auth:      authService,
		Uploads:   uploadClient,
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
