package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caelus-market/caelus-backend/internal/config"
	"github.com/caelus-market/caelus-backend/internal/http/handlers"
	"github.com/caelus-market/caelus-backend/internal/http/middleware"
	"github.com/caelus-market/caelus-backend/internal/interface/http/handler"
	"github.com/caelus-market/caelus-backend/internal/metrics"
)

// Handlers собирает все обработчики, которые монтирует роутер.
type Handlers struct {
	Health  *handlers.HealthHandler
	WS      *handlers.WSHandler
	Tags    *handler.TagHandler
	Catalog *handler.CatalogHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	tokens middleware.AccessTokenParser,
	registry *metrics.Registry,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if !cfg.IsProduction() {
		r.Use(gin.Logger())
	}
	r.Use(middleware.MetricsMiddleware(registry.HTTP))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	api := r.Group("/api")

	// Публичные маршруты
	api.GET("/ws", h.WS.Handle)
	api.GET("/catalog/specializations", h.Catalog.ListSpecializations)
	api.GET("/catalog/specializations/:id", h.Catalog.GetSpecialization)
	api.GET("/designers/:id/tags", middleware.UUIDValidator("id"), h.Tags.ListDesignerTags)
	api.GET("/tags/:tagId", middleware.UUIDValidator("tagId"), h.Tags.GetTag)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		protected.GET("/tags/my", h.Tags.ListMyTags)
		protected.POST("/tags", h.Tags.CreateTag)
		protected.POST("/tags/:tagId/progress",
			middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod),
			middleware.UUIDValidator("tagId"),
			h.Tags.RecordProject,
		)
	}

	return r
}
