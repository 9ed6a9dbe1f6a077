package api

import (
	"net/http"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/handler"
	customMiddleware "github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/api/middleware"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/config"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/llm"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/security"
	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/tool"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the HTTP layer is built on
type Deps struct {
	Registry   *tool.Registry
	Dispatcher handler.Invoker
	Sessions   handler.SessionService
	Groups     handler.GroupService
	Providers  *llm.Router
	Health     handler.HealthChecker
	// JWT is nil when token authentication is disabled
	JWT *security.JWTManager
	// RateLimiter is nil when Redis is not configured
	RateLimiter customMiddleware.Limiter
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", customMiddleware.UserIDHeader},
		ExposedHeaders:   []string{"X-Request-ID", "X-Session-ID", "X-Interaction-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	toolHandler := handler.NewToolHandler(deps.Registry, deps.Dispatcher, cfg.Server.MaxUploadBytes)
	sessionHandler := handler.NewSessionHandler(deps.Sessions)
	groupHandler := handler.NewGroupHandler(deps.Groups, deps.Dispatcher)

	authMiddleware := customMiddleware.NewAuthMiddleware(deps.JWT)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/health/diagnostics", handler.Diagnostics(deps.Health))

		// Catalog (public)
		r.Get("/tools", toolHandler.List)
		r.Get("/tools/{toolID}", toolHandler.Get)
		r.Get("/agents", handler.ListAgents)
		r.Get("/llm-providers", handler.ListLLMProviders(deps.Providers))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			if deps.RateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(deps.RateLimiter).Limit)
			}

			r.Post("/tools/{toolID}/invoke", toolHandler.Invoke)
			r.Post("/tools/{toolID}/invoke/upload", toolHandler.InvokeUpload)
			r.Post("/tools/{toolID}/invoke/audio", toolHandler.InvokeUpload)

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.Create)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Get("/history", sessionHandler.History)
					r.Delete("/", sessionHandler.Delete)
				})
			})

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", groupHandler.Create)

				r.Route("/{groupID}", func(r chi.Router) {
					r.Post("/join", groupHandler.Join)
					r.Post("/messages", groupHandler.Message)
					r.Get("/history", groupHandler.History)
					r.Delete("/", groupHandler.Delete)
				})
			})
		})
	})

	return r
}
