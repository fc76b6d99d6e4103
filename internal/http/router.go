package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/planwise/planwise-api/internal/auth"
	"github.com/planwise/planwise-api/internal/config"
	"github.com/planwise/planwise-api/internal/httputil"
	"github.com/planwise/planwise-api/internal/logging"
	"github.com/planwise/planwise-api/internal/recommendation"
	"github.com/planwise/planwise-api/internal/user"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	logger *logging.Logger,
	authHandler *auth.Handler,
	authMiddleware *auth.Middleware,
	userHandler *user.Handler,
	recommendationHandler *recommendation.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Compress(5))

	// Public routes
	r.Get("/health", handleHealth)
	r.Post("/user", userHandler.Create)
	r.Post("/login", authHandler.Login)

	// Swagger UI - only in development
	if cfg.Server.IsDevelopment() {
		log.Println("Swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Post("/logout", authHandler.Logout)

		r.Get("/users", userHandler.List)
		r.Get("/user/{id}", userHandler.Get)
		r.Put("/user/{id}", userHandler.Update)
		r.Patch("/user/{id}", userHandler.Update)
		r.Delete("/user/{id}", userHandler.Delete)

		r.Get("/recommendations", recommendationHandler.List)
		r.Get("/recommendation/{id}", recommendationHandler.Get)
		r.Post("/recommendation", recommendationHandler.Create)
		r.Put("/recommendation/{id}", recommendationHandler.Update)
		r.Delete("/recommendation/{id}", recommendationHandler.Delete)
	})

	return r
}

// handleHealth is a simple health check endpoint
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /health [get]
func handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, map[string]string{"status": "api is running"}, http.StatusOK)
}
