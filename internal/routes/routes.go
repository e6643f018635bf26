package routes

import (
	"hyperlocal_backend/docs"
	"hyperlocal_backend/internal/handlers"
	"hyperlocal_backend/internal/logger"
	"hyperlocal_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guards *handlers.Guards,
) {
	// Служебные маршруты
	appHandlers.HealthHandler.RegisterRoutes(ginRouter)
	ginRouter.GET("/metrics", middleware.MetricsHandler())

	docs.SwaggerInfo.BasePath = "/"
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := ginRouter.Group("/api")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, guards)
		appHandlers.UserHandler.RegisterRoutes(api, guards)
		appHandlers.JobHandler.RegisterRoutes(api, guards)
		appHandlers.ApplicationHandler.RegisterRoutes(api, guards)
		appHandlers.RatingHandler.RegisterRoutes(api, guards)
		appHandlers.WorkerHandler.RegisterRoutes(api, guards)
		appHandlers.VerificationHandler.RegisterRoutes(api, guards)
		appHandlers.ConversationHandler.RegisterRoutes(api, guards)
		appHandlers.AdminHandler.RegisterRoutes(api, guards)
	}
	logger.Info("HTTP routes registered", "count", len(ginRouter.Routes()))
}
