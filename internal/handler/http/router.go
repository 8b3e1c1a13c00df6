package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PresidentialParadise/The-Big-Cheese/internal/auth"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/repository"
	"github.com/PresidentialParadise/The-Big-Cheese/internal/service"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/health"
	"github.com/PresidentialParadise/The-Big-Cheese/pkg/middleware"
)

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	authService *auth.Service,
	guard *auth.Guard,
	userService *service.UserService,
	recipeService *service.RecipeService,
	metaRepo repository.MetaRepository,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("big-cheese"))

	// Operational endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(authService, logger)
	userHandler := NewUserHandler(userService, guard, logger)
	recipeHandler := NewRecipeHandler(recipeService, guard, logger)
	adminHandler := NewAdminHandler(metaRepo, guard, logger)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Get("/me", userHandler.Me)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Patch("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
	})

	r.Route("/api/v1/recipes", func(r chi.Router) {
		r.Get("/", recipeHandler.List)
		r.Post("/", recipeHandler.Create)
		r.Get("/{id}", recipeHandler.Get)
		r.Patch("/{id}", recipeHandler.Update)
		r.Delete("/{id}", recipeHandler.Delete)
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Get("/session-config", adminHandler.GetSessionConfig)
		r.Put("/session-config", adminHandler.PutSessionConfig)
	})

	return r
}
