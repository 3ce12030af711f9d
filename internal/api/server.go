package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/techdesk/internal/backends"
	"github.com/terra-clan/techdesk/internal/config"
	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/models"
	"github.com/terra-clan/techdesk/internal/records"
	"github.com/terra-clan/techdesk/internal/stats"
	"github.com/terra-clan/techdesk/internal/storage"
)

var (
	permClientsRead    = models.Permission("clients", models.ActionRead)
	permClientsWrite   = models.Permission("clients", models.ActionWrite)
	permOrdersRead     = models.Permission("orders", models.ActionRead)
	permOrdersWrite    = models.Permission("orders", models.ActionWrite)
	permServicesRead   = models.Permission("services", models.ActionRead)
	permServicesWrite  = models.Permission("services", models.ActionWrite)
	permInventoryRead  = models.Permission("inventory", models.ActionRead)
	permInventoryWrite = models.Permission("inventory", models.ActionWrite)
	permStatsRead      = models.Permission("stats", models.ActionRead)
)

// Deps are the components the API serves
type Deps struct {
	Records  *records.Manager
	Stats    *stats.Service
	Repo     storage.Repository // API key lookup
	Backends *backends.Registry
	Bus      events.Subscriber
}

// Server represents the HTTP API server
type Server struct {
	config         config.ServerConfig
	router         *chi.Mux
	records        *records.Manager
	stats          *stats.Service
	backends       *backends.Registry
	bus            events.Subscriber
	authMiddleware *AuthMiddleware
}

// NewServer creates a new API server. /api/v1 requires an API key only when auth is enabled.
func NewServer(cfg config.ServerConfig, auth config.AuthConfig, deps Deps) *Server {
	s := &Server{
		config:   cfg,
		records:  deps.Records,
		stats:    deps.Stats,
		backends: deps.Backends,
		bus:      deps.Bus,
	}
	if s.backends == nil {
		s.backends = backends.NewRegistry()
	}
	if s.bus == nil {
		s.bus = events.NopBus{}
	}
	if auth.Enabled {
		s.authMiddleware = NewAuthMiddleware(deps.Repo)
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.config.RateLimitRPS > 0 {
		r.Use(NewRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst).Handler)
	}

	// Health check (outside versioned API - public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api/v1", func(r chi.Router) {
		if s.authMiddleware != nil {
			r.Use(s.authMiddleware.Authenticate)
		}

		// Long-lived websocket, kept out of the request timeout
		r.With(s.require(permStatsRead)).Get("/stats/live", s.handleLiveStats)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/clients", func(r chi.Router) {
				r.With(s.require(permClientsRead)).Get("/", s.handleListClients)
				r.With(s.require(permClientsWrite)).Post("/", s.handleCreateClient)
				r.Route("/{id}", func(r chi.Router) {
					r.With(s.require(permClientsRead)).Get("/", s.handleGetClient)
					r.With(s.require(permClientsWrite)).Put("/", s.handleUpdateClient)
					r.With(s.require(permClientsWrite)).Delete("/", s.handleDeleteClient)
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.With(s.require(permOrdersRead)).Get("/", s.handleListOrders)
				r.With(s.require(permOrdersWrite)).Post("/", s.handleCreateOrder)
				r.Route("/{id}", func(r chi.Router) {
					r.With(s.require(permOrdersRead)).Get("/", s.handleGetOrder)
					r.With(s.require(permOrdersWrite)).Put("/", s.handleUpdateOrder)
					r.With(s.require(permOrdersWrite)).Delete("/", s.handleDeleteOrder)
				})
			})

			r.Route("/services", func(r chi.Router) {
				r.With(s.require(permServicesRead)).Get("/", s.handleListServices)
				r.With(s.require(permServicesRead)).Get("/active", s.handleListActiveServices)
				r.With(s.require(permServicesWrite)).Post("/", s.handleCreateService)
				r.Route("/{id}", func(r chi.Router) {
					r.With(s.require(permServicesRead)).Get("/", s.handleGetService)
					r.With(s.require(permServicesWrite)).Put("/", s.handleUpdateService)
					r.With(s.require(permServicesWrite)).Delete("/", s.handleDeleteService)
				})
			})

			r.Route("/inventory", func(r chi.Router) {
				r.With(s.require(permInventoryRead)).Get("/", s.handleListInventory)
				r.With(s.require(permInventoryWrite)).Post("/", s.handleCreateInventoryItem)
				r.Route("/{id}", func(r chi.Router) {
					r.With(s.require(permInventoryRead)).Get("/", s.handleGetInventoryItem)
					r.With(s.require(permInventoryWrite)).Put("/", s.handleUpdateInventoryItem)
					r.With(s.require(permInventoryWrite)).Delete("/", s.handleDeleteInventoryItem)
				})
			})

			r.Route("/stats", func(r chi.Router) {
				r.Use(s.require(permStatsRead))
				r.Get("/summary", s.handleSummary)
				r.Get("/orders-by-status", s.handleOrdersByStatus)
				r.Get("/monthly-revenue", s.handleMonthlyRevenue)
				r.Get("/service-trend", s.handleServiceTrend)
				r.Get("/client-segments", s.handleClientSegments)
				r.Get("/inventory-by-category", s.handleInventoryByCategory)
				r.Get("/technician-performance", s.handleTechnicianPerformance)
			})
		})
	})

	s.router = r
}

// require checks a permission when authentication is enabled
func (s *Server) require(permission string) func(http.Handler) http.Handler {
	if s.authMiddleware == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return s.authMiddleware.RequirePermission(permission)
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ctx, caller := withCallerSlot(r.Context())
		r = r.WithContext(ctx)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
				"caller", caller.name,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
