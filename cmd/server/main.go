package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yui-dot/apollyon-sheet/internal/catalog"
	"github.com/yui-dot/apollyon-sheet/internal/config"
	"github.com/yui-dot/apollyon-sheet/internal/events"
	"github.com/yui-dot/apollyon-sheet/internal/repositories/sheets"
	"github.com/yui-dot/apollyon-sheet/internal/server"
	sheetsvc "github.com/yui-dot/apollyon-sheet/internal/services/sheet"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build the ability catalog
	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = catalog.LoadFile(cfg.Catalog.Path)
		log.Printf("Catalog: loaded from %s", cfg.Catalog.Path)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	eventBus := events.NewBus()

	svc := sheetsvc.NewService(&sheetsvc.ServiceConfig{
		Repository: sheets.NewInMemoryRepository(),
		Catalog:    cat,
		EventBus:   eventBus,
	})

	srv := server.New(&server.Config{
		Service:  svc,
		Catalog:  cat,
		EventBus: eventBus,
		Addr:     cfg.Server.Addr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server shut down cleanly")
}
