package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rxreturns/rxreturns/internal/api/handlers"
	"github.com/rxreturns/rxreturns/internal/api/middleware"
	"github.com/rxreturns/rxreturns/internal/catalog"
	"github.com/rxreturns/rxreturns/internal/repository"
	"github.com/rxreturns/rxreturns/internal/service"
)

// Deps bundles the services and repositories the router wires into
// handlers
type Deps struct {
	EstimateService  *service.EstimateService
	ReturnService    *service.ReturnService
	AuthService      *service.AuthService
	RateLimitService *service.RateLimitService
	UsageService     *service.UsageService
	Catalog          catalog.Catalog
	PharmacyRepo     *repository.PharmacyRepository
	InventoryRepo    *repository.InventoryRepository
	DocumentRepo     *repository.DocumentRepository
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logging)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)

	// Health checks (no auth required)
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready)

	// Create handlers
	estimateHandler := handlers.NewEstimateHandler(deps.EstimateService)
	catalogHandler := handlers.NewCatalogHandler(deps.Catalog)
	returnHandler := handlers.NewReturnHandler(deps.ReturnService)
	inventoryHandler := handlers.NewInventoryHandler(deps.InventoryRepo, deps.EstimateService)
	documentHandler := handlers.NewDocumentHandler(deps.DocumentRepo)
	pharmacyHandler := handlers.NewPharmacyHandler(deps.PharmacyRepo, deps.UsageService)
	authHandler := handlers.NewAuthHandler(deps.AuthService)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(deps.AuthService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(deps.RateLimitService, deps.PharmacyRepo)
	quotaMiddleware := middleware.NewQuotaMiddleware(deps.UsageService)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/oauth/token", authHandler.Token)
		r.Post("/pharmacies/register", pharmacyHandler.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.RateLimit)

			// NDC validation and catalog lookups
			r.Post("/ndc/validate", estimateHandler.ValidateNDC)
			r.Route("/products", func(r chi.Router) {
				r.Get("/", catalogHandler.Search)
				r.Get("/{ndc}", catalogHandler.GetProduct)
			})

			// Credit estimation (metered)
			r.With(quotaMiddleware.EnforceQuota).Post("/estimates", estimateHandler.Batch)

			// Return order endpoints
			r.Route("/returns", func(r chi.Router) {
				r.Post("/", returnHandler.Create)
				r.Get("/", returnHandler.List)
				r.Get("/{id}", returnHandler.Get)
				r.Post("/{id}/status", returnHandler.UpdateStatus)
				r.Post("/{id}/cancel", returnHandler.Cancel)
			})

			// Inventory endpoints
			r.Route("/inventory", func(r chi.Router) {
				r.Post("/", inventoryHandler.Create)
				r.Get("/", inventoryHandler.List)
				r.Get("/expiring", inventoryHandler.Expiring)
				r.With(quotaMiddleware.EnforceQuota).Post("/estimate", inventoryHandler.Estimate)
				r.Put("/{id}", inventoryHandler.Update)
				r.Delete("/{id}", inventoryHandler.Delete)
			})

			// Document endpoints
			r.Route("/documents", func(r chi.Router) {
				r.Post("/", documentHandler.Create)
				r.Get("/", documentHandler.List)
				r.Get("/{id}", documentHandler.Get)
				r.Delete("/{id}", documentHandler.Delete)
			})

			// Pharmacy profile endpoints
			r.Route("/pharmacies", func(r chi.Router) {
				r.Get("/me", pharmacyHandler.GetProfile)
				r.Patch("/me", pharmacyHandler.UpdateProfile)
				r.Post("/me/regenerate-api-key", pharmacyHandler.RegenerateAPIKey)
				r.Get("/me/usage", pharmacyHandler.GetUsageStats)
			})
		})
	})

	return r
}
