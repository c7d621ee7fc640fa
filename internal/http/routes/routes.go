package routes

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/config"
	"github.com/phambaophuc/image-toolkit/internal/http/handlers"
	"github.com/phambaophuc/image-toolkit/internal/http/middleware"
	"github.com/phambaophuc/image-toolkit/internal/services/ratelimit"
	"github.com/phambaophuc/image-toolkit/internal/services/storage"
	"go.uber.org/zap"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	limiter      *ratelimit.Limiter
	backend      storage.Backend
	config       *config.Config
	logger       *zap.Logger
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	limiter *ratelimit.Limiter,
	backend storage.Backend,
	config *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		limiter:      limiter,
		backend:      backend,
		config:       config,
		logger:       logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS(r.config.Server.CORSOrigins))
	router.Use(middleware.SecurityHeaders())

	// Only the local backend keeps outputs on this host; the others return their own URLs.
	if local, ok := r.backend.(*storage.LocalBackend); ok {
		router.Use(static.Serve(local.PublicPath(), static.LocalFile(local.Root(), false)))
	}

	api := router.Group("/api")
	api.Use(middleware.Auth(r.limiter, r.logger))
	api.Use(middleware.ValidateContentType(r.logger))
	{
		api.POST("/compress", r.imageHandler.Compress)
		api.POST("/resize", r.imageHandler.Resize)
		api.POST("/crop", r.imageHandler.Crop)
		api.POST("/convert", r.imageHandler.Convert)
		api.POST("/remove-bg", r.imageHandler.RemoveBackground)
		api.POST("/brightness", r.imageHandler.Brightness)
		api.POST("/contrast", r.imageHandler.Contrast)
		api.POST("/grayscale", r.imageHandler.Grayscale)
		api.POST("/watermark", r.imageHandler.Watermark)
	}

	router.GET("/health", r.imageHandler.HealthCheck)
	router.GET("/", r.imageHandler.Root)

	if r.config.Server.EnablePprof {
		pprof.Register(router)
	}

	return router
}
