package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mcg-platform/componentgen/internal/api/handler"
	customMiddleware "github.com/mcg-platform/componentgen/internal/api/middleware"
	"github.com/mcg-platform/componentgen/internal/config"
	"github.com/mcg-platform/componentgen/internal/llm"
	"github.com/mcg-platform/componentgen/internal/llm/gemini"
	"github.com/mcg-platform/componentgen/internal/llm/ollama"
	"github.com/mcg-platform/componentgen/internal/repository/mongo"
	"github.com/mcg-platform/componentgen/internal/repository/redis"
	"github.com/mcg-platform/componentgen/internal/security"
	"github.com/mcg-platform/componentgen/internal/service"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongo.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS; credentials must be allowed for the auth cookie
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Repositories
	sessionRepo := mongo.NewSessionRepository(db)
	userRepo := mongo.NewUserRepository(db)

	// Redis-backed cache and rate limiter
	var sessionCache service.SessionCache
	var rateLimiter *redis.RateLimiter
	if redisClient != nil {
		sessionCache = redis.NewSessionCache(redisClient)
		rateLimiter = redis.NewRateLimiter(
			redisClient,
			cfg.Security.RateLimit.RequestsPerMinute,
			cfg.Security.RateLimit.Burst,
		)
	}

	// LLM providers
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.LLM.DefaultProvider)

	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}
	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}

	// Services
	sessionService := service.NewSessionService(sessionRepo, sessionCache)
	componentService := service.NewComponentService(llmRouter)
	authService := service.NewAuthService(userRepo, jwtManager)

	// Handlers
	sessionHandler := handler.NewSessionHandler(sessionService)
	llmHandler := handler.NewLLMHandler(componentService)
	authHandler := handler.NewAuthHandler(authService, cfg.Auth)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager, cfg.Auth.CookieName)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/user", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			if rateLimiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
			}

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)
				r.Post("/", sessionHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", sessionHandler.Get)
					r.Put("/", sessionHandler.Update)
					r.Delete("/", sessionHandler.Delete)
					r.Post("/add-message", sessionHandler.AddMessage)
				})
			})

			r.Route("/llm", func(r chi.Router) {
				r.Post("/generate-component", llmHandler.GenerateComponent)
				r.Get("/providers", llmHandler.ListProviders)
			})
		})
	})

	return r
}
