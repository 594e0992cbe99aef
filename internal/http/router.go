package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "giveaway-entry-backend/docs"
	"giveaway-entry-backend/internal/common/config"
	"giveaway-entry-backend/internal/common/middleware"
	entryhttp "giveaway-entry-backend/internal/features/entry/delivery/http"
	"giveaway-entry-backend/internal/features/entry/service"
)

// NewRouter builds the gin engine with middlewares and routes wired.
func NewRouter(cfg *config.Config, entries service.EntryService) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	eh := entryhttp.NewEntryHandler(entries)

	// Public health check
	router.GET("/health", eh.Health)

	eh.RegisterRoutes(router, cfg.Server.EntryPath)

	if cfg.Server.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return router
}
