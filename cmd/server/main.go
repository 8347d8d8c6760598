package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pricelens/backend/config"
	httpDelivery "github.com/pricelens/backend/internal/delivery/http"
	"github.com/pricelens/backend/internal/infrastructure/cache"
	"github.com/pricelens/backend/internal/infrastructure/feed"
	"github.com/pricelens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PriceLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s (TTL: %s)", cfg.Cache.Type, cfg.Cache.TTL)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()

	feedClient := feed.NewClient(cfg.Feed.APIKey, cfg.Feed.BaseURL, cfg.Feed.RequestsPerMinute)
	if cfg.Server.Environment == "development" {
		feedClient.SetDebug(true)
		log.Printf("Feed client debug mode enabled")
	}
	log.Printf("Feed configured: %s (%d req/min)", cfg.Feed.BaseURL, cfg.Feed.RequestsPerMinute)

	// Build the matching engine. The brand alias table is immutable after
	// this point.
	canon := usecase.NewBrandCanonicalizer(cfg.Matching.BrandAliases)
	classifier := usecase.NewCategoryClassifier()
	orchestrator := usecase.NewMatchOrchestrator(canon, classifier, cfg.Matching.EnableDebugLogging)

	comparisonService := usecase.NewComparisonService(
		memoryCache,
		feedClient,
		orchestrator,
		usecase.ComparisonServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	log.Printf("Matching: extra brand aliases=%d, debug=%v",
		len(cfg.Matching.BrandAliases), cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(comparisonService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
