package router

import (
	"net/http"
	"time"

	"github.com/docentia/tutorias-backend/internal/config"
	"github.com/docentia/tutorias-backend/internal/handler"
	"github.com/docentia/tutorias-backend/internal/middleware"
	"github.com/docentia/tutorias-backend/internal/response"
	"github.com/docentia/tutorias-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Docente   *handler.DocenteHandler
	Tutorship *handler.TutorshipHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every log line can be correlated.
	router.Use(response.RequestIDMiddleware())

	// Signature payloads make record listings large; compress them.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	api := router.Group("/api")
	{
		// ─── Public ────────────────────────────────────────────────────
		api.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		api.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		api.GET("/docentes", handlers.Docente.List)

		// ─── Authenticated ─────────────────────────────────────────────
		protected := api.Group("")
		protected.Use(middleware.RequireJWT(authService))
		{
			protected.GET("/profile", handlers.Auth.Profile)

			protected.GET("/records", handlers.Tutorship.List)
			protected.GET("/records/docente/:userId", handlers.Tutorship.ListByDocente)
			protected.POST("/records", handlers.Tutorship.Create)
			protected.PUT("/records/:id", handlers.Tutorship.Update)
			protected.DELETE("/records/:id", handlers.Tutorship.Delete)
		}
	}

	return router
}
