package rest

import (
	"net/http"

	"cozyberries-backend/application/services"
	"cozyberries-backend/domain/collections"
	"cozyberries-backend/infrastructure/config"
	"cozyberries-backend/interfaces/http/rest/handlers"
	"cozyberries-backend/interfaces/http/rest/middleware"
	"cozyberries-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	config      *config.Config
	catalog     *services.CatalogService
	orders      *services.OrderService
	addresses   *services.AddressService
	collections *services.CollectionService
	reviews     *services.ReviewService
	validator   *auth.JWTValidator
	registry    *prometheus.Registry
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	catalog *services.CatalogService,
	orders *services.OrderService,
	addresses *services.AddressService,
	collectionSvc *services.CollectionService,
	reviews *services.ReviewService,
	validator *auth.JWTValidator,
	registry *prometheus.Registry,
	logger *zap.Logger,
) *Router {
	return &Router{
		config:      cfg,
		catalog:     catalog,
		orders:      orders,
		addresses:   addresses,
		collections: collectionSvc,
		reviews:     reviews,
		validator:   validator,
		registry:    registry,
		logger:      logger,
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

	if rt.config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.cozyberries.in"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.config.EnableMetrics && rt.registry != nil {
		router.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))
	}

	productHandler := handlers.NewProductHandler(rt.catalog, rt.logger)
	orderHandler := handlers.NewOrderHandler(rt.orders, rt.logger)
	addressHandler := handlers.NewAddressHandler(rt.addresses, rt.logger)
	cartHandler := handlers.NewCollectionHandler(rt.collections, collections.KindCart, rt.logger)
	wishlistHandler := handlers.NewCollectionHandler(rt.collections, collections.KindWishlist, rt.logger)
	reviewHandler := handlers.NewReviewHandler(rt.reviews, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Public storefront endpoints
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/suggest", productHandler.Suggest)
			r.Get("/{productID}", productHandler.GetProduct)
			r.Get("/{productID}/reviews", reviewHandler.ListReviews)
			r.Get("/{productID}/rating", reviewHandler.RatingSummary)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", productHandler.ListCategories)
			r.Get("/{categoryID}/sizes", productHandler.SizeOptions)
		})

		// Authenticated customer endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))

			r.Post("/products/{productID}/reviews", reviewHandler.SubmitReview)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", orderHandler.CreateOrder)
				r.Get("/", orderHandler.ListOrders)
				r.Get("/{orderID}", orderHandler.GetOrder)
				r.Post("/{orderID}/cancel", orderHandler.CancelOrder)
				r.Post("/{orderID}/payments/upi", orderHandler.ConfirmUPIPayment)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", addressHandler.ListAddresses)
				r.Post("/", addressHandler.CreateAddress)
				r.Put("/{addressID}", addressHandler.UpdateAddress)
				r.Delete("/{addressID}", addressHandler.DeleteAddress)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.Get)
				r.Put("/", cartHandler.Replace)
				r.Delete("/", cartHandler.Clear)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.Get)
				r.Put("/", wishlistHandler.Replace)
				r.Delete("/", wishlistHandler.Clear)
			})
		})

		// Back-office endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.validator, rt.logger))
			r.Use(middleware.RequireRole(auth.RoleAdmin))

			r.Post("/products", productHandler.CreateProduct)
			r.Put("/products/{productID}", productHandler.UpdateProduct)
			r.Delete("/products/{productID}", productHandler.DeleteProduct)

			r.Get("/orders/{orderID}", orderHandler.AdminGetOrder)
			r.Patch("/orders/{orderID}/status", orderHandler.AdminUpdateStatus)
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
