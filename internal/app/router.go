package app

import (
	"bizdiag_backend/docs"
	"bizdiag_backend/internal/config"
	"bizdiag_backend/internal/middleware"
	"bizdiag_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/api/health", c.health.HealthCheck)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerTemplateRoutes(authGroup, c)
		a.registerSessionRoutes(authGroup, c)
		authGroup.GET("/activity", c.activity.ListRecent)
	}
}

func (a *App) registerTemplateRoutes(rg *gin.RouterGroup, c *controllers) {
	templates := rg.Group("/diagnostics/templates")
	{
		templates.GET("", c.template.ListTemplates)
		templates.GET("/:id", c.template.GetTemplate)
		templates.GET("/slug/:slug", c.template.GetTemplateBySlug)
	}
}

func (a *App) registerSessionRoutes(rg *gin.RouterGroup, c *controllers) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", c.diagnostic.StartSession)
		sessions.GET("", c.diagnostic.ListSessions)
		sessions.GET("/compare", c.diagnostic.Compare)
		sessions.GET("/:id", c.diagnostic.GetSession)
		sessions.DELETE("/:id", c.diagnostic.CancelSession)
		sessions.POST("/:id/responses", c.diagnostic.SubmitResponse)
		sessions.POST("/:id/responses/batch", c.diagnostic.SubmitResponses)
		sessions.GET("/:id/progress", c.diagnostic.GetProgress)
		sessions.POST("/:id/finalize", c.diagnostic.Finalize)
		sessions.GET("/:id/recommendations", c.diagnostic.GetRecommendations)
		sessions.POST("/:id/recommendations", c.diagnostic.RegenerateRecommendations)
	}
}
