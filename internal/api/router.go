package api

import (
	"log"
	"net/http"

	"serena-mcp/internal/config"
	"serena-mcp/internal/handlers"
	"serena-mcp/internal/metrics"
	"serena-mcp/pkg/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	MCPHandler    *handlers.MCPHandler
	SystemHandler *handlers.SystemHandler
	Metrics       *metrics.Exporter
	Config        *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Defaults()
	}

	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Public Routes ---
	if deps.SystemHandler == nil {
		panic("SystemHandler dependency is nil in router setup")
	}
	r.Get("/health", deps.SystemHandler.HandleHealth)
	r.Get("/", deps.SystemHandler.HandleRoot)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	} else {
		log.Println("WARN: Metrics dependency is nil, skipping /metrics route.")
	}

	// --- Function Calls ---
	if deps.MCPHandler == nil {
		panic("MCPHandler dependency is nil in router setup")
	}
	r.Route("/mcp", func(r chi.Router) {
		if cfg.AuthSecret != "" {
			r.Use(JwtAuthMiddleware(cfg.AuthSecret))
		} else {
			log.Println("WARN: MCP_AUTH_SECRET not set, /mcp routes are unauthenticated.")
		}
		if cfg.RateLimitRPS > 0 {
			r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		r.Post("/{functionName}", deps.MCPHandler.HandleCall)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorCode(w, http.StatusNotFound, "Not Found", "not_found")
	})

	return r
}
