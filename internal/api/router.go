package api

import (
	"net/http"

	"github.com/Rrens/medical-agent/internal/api/handler"
	customMiddleware "github.com/Rrens/medical-agent/internal/api/middleware"
	"github.com/Rrens/medical-agent/internal/config"
	"github.com/Rrens/medical-agent/internal/llm"
	"github.com/Rrens/medical-agent/internal/security"
	"github.com/Rrens/medical-agent/internal/specialist"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies are the wired components served by the router.
// RateLimiter and MatchCache are optional.
type Dependencies struct {
	Config      *config.Config
	Store       handler.Pinger
	LLMRouter   *llm.Router
	Directory   *specialist.Directory
	Sessions    handler.SessionService
	Users       handler.UserService
	Reports     handler.ReportService
	JWTManager  *security.JWTManager
	RateLimiter customMiddleware.Limiter
	MatchCache  handler.CacheFlusher
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	sessionHandler := handler.NewSessionHandler(deps.Sessions, deps.Reports)
	userHandler := handler.NewUserHandler(deps.Users)

	authMiddleware := customMiddleware.NewAuthMiddleware(deps.JWTManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(deps.RateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Store))

		r.Get("/specialists", handler.ListSpecialists(deps.Directory))
		r.Get("/llm-providers", handler.ListLLMProviders(deps.LLMRouter))

		r.Route("/sessions", func(r chi.Router) {
			r.With(authMiddleware.OptionalAuth, rateLimitMiddleware.Limit).Post("/", sessionHandler.Create)
			r.With(authMiddleware.Authenticate).Get("/", sessionHandler.List)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Patch("/", sessionHandler.Update)
				r.Get("/report", sessionHandler.Report)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Post("/users", userHandler.Bootstrap)
			r.Post("/cache/flush", handler.FlushCache(deps.MatchCache))
		})
	})

	return r
}
