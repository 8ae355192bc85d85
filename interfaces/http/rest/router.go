// Package rest wires the chi router over the application services.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"storefront-backend/application/services"
	"storefront-backend/interfaces/http/rest/handlers"
	"storefront-backend/interfaces/http/rest/middleware"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	catalog *services.CatalogService
	reviews *services.ReviewService
	cms     *services.CMSService
	content *services.ContentService

	errors  *pkgerrors.ErrorHandler
	metrics *observability.Metrics
	logger  *zap.Logger

	enableCORS     bool
	allowedOrigins []string
}

// NewRouter creates a new router instance
func NewRouter(
	catalog *services.CatalogService,
	reviews *services.ReviewService,
	cms *services.CMSService,
	content *services.ContentService,
	errors *pkgerrors.ErrorHandler,
	metrics *observability.Metrics,
	logger *zap.Logger,
	enableCORS bool,
	allowedOrigins []string,
) *Router {
	return &Router{
		catalog:        catalog,
		reviews:        reviews,
		cms:            cms,
		content:        content,
		errors:         errors,
		metrics:        metrics,
		logger:         logger,
		enableCORS:     enableCORS,
		allowedOrigins: allowedOrigins,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		catalogHandler := handlers.NewCatalogHandler(rt.catalog, rt.errors, rt.logger)
		reviewHandler := handlers.NewReviewHandler(rt.reviews, rt.errors, rt.logger)
		cmsHandler := handlers.NewCMSHandler(rt.cms, rt.errors, rt.logger)
		contentHandler := handlers.NewContentHandler(rt.content, rt.errors, rt.logger)

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateCategory)
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/slug/{slug}", catalogHandler.GetCategoryBySlug)
			r.Get("/{categoryID}", catalogHandler.GetCategory)
			r.Put("/{categoryID}", catalogHandler.UpdateCategory)
			r.Delete("/{categoryID}", catalogHandler.DeleteCategory)
			r.Get("/{categoryID}/products", catalogHandler.ListProductsByCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateProduct)
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/slug/{slug}", catalogHandler.GetProductBySlug)
			r.Get("/{productID}", catalogHandler.GetProduct)
			r.Put("/{productID}", catalogHandler.UpdateProduct)
			r.Delete("/{productID}", catalogHandler.DeleteProduct)

			r.Route("/{productID}/reviews", func(r chi.Router) {
				r.Post("/", reviewHandler.CreateReview)
				r.Get("/", reviewHandler.ListProductReviews)
				r.Get("/{reviewID}", reviewHandler.GetReview)
				r.Put("/{reviewID}", reviewHandler.UpdateReview)
				r.Put("/{reviewID}/approval", reviewHandler.SetApproval)
				r.Delete("/{reviewID}", reviewHandler.DeleteReview)
			})
		})

		// Moderation queue
		r.Get("/reviews", reviewHandler.ListRecentReviews)

		r.Route("/pages", func(r chi.Router) {
			r.Post("/", cmsHandler.CreatePage)
			r.Get("/", cmsHandler.ListPages)
			r.Get("/slug/{slug}", cmsHandler.GetPageBySlug)
			r.Get("/{pageID}", cmsHandler.GetPage)
			r.Put("/{pageID}", cmsHandler.UpdatePage)
			r.Delete("/{pageID}", cmsHandler.DeletePage)
			r.Get("/{pageID}/components", cmsHandler.ListPageComponents)
		})

		r.Route("/components", func(r chi.Router) {
			r.Post("/", cmsHandler.CreateComponent)
			r.Get("/global", cmsHandler.ListGlobalComponents)
			r.Get("/{componentID}", cmsHandler.GetComponent)
			r.Put("/{componentID}", cmsHandler.UpdateComponent)
			r.Delete("/{componentID}", cmsHandler.DeleteComponent)
		})

		r.Route("/content", func(r chi.Router) {
			r.Post("/", contentHandler.CreateContentItem)
			r.Get("/", contentHandler.ListContentItems)
			r.Get("/slug/{slug}", contentHandler.GetContentItemBySlug)
			r.Get("/{contentID}", contentHandler.GetContentItem)
			r.Delete("/{contentID}", contentHandler.DeleteContentItem)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
