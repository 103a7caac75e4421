package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-market-backend/internal/config"
	"github.com/ignatzorin/freelance-market-backend/internal/http/handlers"
	"github.com/ignatzorin/freelance-market-backend/internal/http/middleware"
	"github.com/ignatzorin/freelance-market-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	proposalHandler *handlers.ProposalHandler,
	contractHandler *handlers.ContractHandler,
	milestoneHandler *handlers.MilestoneHandler,
	reviewHandler *handlers.ReviewHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты
	api.GET("/projects", projectHandler.List)
	api.GET("/projects/:id", middleware.UUIDValidator("id"), projectHandler.Get)
	api.GET("/users/:id/reviews", middleware.UUIDValidator("id"), reviewHandler.ListForUser)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/projects", projectHandler.Create)
		protected.POST("/projects/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.Create)
		protected.GET("/projects/:id/proposals", middleware.UUIDValidator("id"), proposalHandler.List)

		protected.POST("/proposals/:id/accept", middleware.UUIDValidator("id"), proposalHandler.Accept)

		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/:id", middleware.UUIDValidator("id"), contractHandler.Get)
		protected.POST("/reviews", reviewHandler.Create)

		protected.POST("/milestones/:id/submit", middleware.UUIDValidator("id"), milestoneHandler.Submit)
		protected.POST("/milestones/:id/approve", middleware.UUIDValidator("id"), milestoneHandler.Approve)
	}

	return r
}
