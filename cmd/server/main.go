package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxreturns/rxreturns/internal/api"
	"github.com/rxreturns/rxreturns/internal/catalog"
	"github.com/rxreturns/rxreturns/internal/config"
	"github.com/rxreturns/rxreturns/internal/repository"
	"github.com/rxreturns/rxreturns/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Shared database connection
	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	pharmacyRepo := repository.NewPharmacyRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	usageRepo := repository.NewUsageRepository(db)

	// Initialize services
	rateLimitService, err := service.NewRateLimitService(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Select the catalog backend: Postgres (cached through Redis) for
	// hosted deployments, the static table for demo mode
	var cat catalog.Catalog
	switch cfg.CatalogSource {
	case config.CatalogSourceStatic:
		cat = catalog.NewStaticSeeded()
		log.Println("Using static in-memory product catalog")
	default:
		cat = repository.NewProductRepository(db)
		if cfg.CatalogCacheTTL > 0 {
			cat = catalog.NewCached(cat, rateLimitService.Client(), cfg.CatalogCacheTTL)
		}
	}

	estimateService := service.NewEstimateService(cat)
	returnService := service.NewReturnService(returnRepo, estimateService)
	authService := service.NewAuthService(pharmacyRepo, cfg.JWTSecret)
	usageService := service.NewUsageService(usageRepo, pharmacyRepo)

	// Set up router
	router := api.NewRouter(api.Deps{
		EstimateService:  estimateService,
		ReturnService:    returnService,
		AuthService:      authService,
		RateLimitService: rateLimitService,
		UsageService:     usageService,
		Catalog:          cat,
		PharmacyRepo:     pharmacyRepo,
		InventoryRepo:    inventoryRepo,
		DocumentRepo:     documentRepo,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting RxReturns server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
