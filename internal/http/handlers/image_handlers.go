package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/config"
	"github.com/phambaophuc/image-toolkit/internal/models"
	"github.com/phambaophuc/image-toolkit/internal/services/processor"
	"github.com/phambaophuc/image-toolkit/internal/services/queue"
	"github.com/phambaophuc/image-toolkit/internal/services/ratelimit"
	"github.com/phambaophuc/image-toolkit/internal/services/storage"
	"github.com/phambaophuc/image-toolkit/internal/services/validator"
	"go.uber.org/zap"
)

const imageParamKey = "image"

type ImageHandler struct {
	processor *processor.ImageProcessor
	storage   *storage.StorageService
	quota     ratelimit.CounterStore
	events    queue.Publisher
	logger    *zap.Logger
	config    *config.Config
}

func NewImageHandler(
	processor *processor.ImageProcessor,
	storage *storage.StorageService,
	quota ratelimit.CounterStore,
	events queue.Publisher,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	if events == nil {
		events = queue.NoopPublisher{}
	}
	return &ImageHandler{
		processor: processor,
		storage:   storage,
		quota:     quota,
		events:    events,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

func (h *ImageHandler) Compress(c *gin.Context) {
	h.handle(c, "compressed", operation(validator.ParseCompress, func(p models.CompressParams) processor.Operation {
		return processor.CompressOperation{Params: p}
	}))
}

func (h *ImageHandler) Resize(c *gin.Context) {
	h.handle(c, "resized", operation(validator.ParseResize, func(p models.ResizeParams) processor.Operation {
		return processor.ResizeOperation{Params: p}
	}))
}

func (h *ImageHandler) Crop(c *gin.Context) {
	h.handle(c, "cropped", operation(validator.ParseCrop, func(p models.CropParams) processor.Operation {
		return processor.CropOperation{Params: p}
	}))
}

func (h *ImageHandler) Convert(c *gin.Context) {
	h.handle(c, "converted", operation(validator.ParseConvert, func(p models.ConvertParams) processor.Operation {
		return processor.ConvertOperation{Params: p}
	}))
}

func (h *ImageHandler) RemoveBackground(c *gin.Context) {
	h.handle(c, "nobg", operation(validator.ParseRemoveBackground, func(p models.RemoveBackgroundParams) processor.Operation {
		return processor.RemoveBackgroundOperation{Params: p}
	}))
}

func (h *ImageHandler) Brightness(c *gin.Context) {
	h.handle(c, "brightened", operation(validator.ParseBrightness, func(p models.BrightnessParams) processor.Operation {
		return processor.BrightnessOperation{Params: p}
	}))
}

func (h *ImageHandler) Contrast(c *gin.Context) {
	h.handle(c, "contrasted", operation(validator.ParseContrast, func(p models.ContrastParams) processor.Operation {
		return processor.ContrastOperation{Params: p}
	}))
}

func (h *ImageHandler) Grayscale(c *gin.Context) {
	h.handle(c, "grayscale", operation(validator.ParseGrayscale, func(p models.GrayscaleParams) processor.Operation {
		return processor.GrayscaleOperation{Params: p}
	}))
}

func (h *ImageHandler) Watermark(c *gin.Context) {
	h.handle(c, "watermarked", operation(validator.ParseWatermark, func(p models.WatermarkParams) processor.Operation {
		return processor.WatermarkOperation{Params: p}
	}))
}

// HealthCheck
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	services := h.storage.HealthCheck(ctx)
	if h.quota != nil {
		if err := h.quota.HealthCheck(ctx); err != nil {
			h.logger.Warn("Quota store health check failed", zap.Error(err))
			services["quota_"+h.quota.Name()] = "unhealthy"
		} else {
			services["quota_"+h.quota.Name()] = "healthy"
		}
	}
	services["queue"] = h.events.HealthCheck()

	stats, err := h.events.QueueStats()
	if err != nil {
		h.logger.Warn("Queue stats unavailable", zap.Error(err))
		services["queue"] = "unhealthy"
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.HealthCheck{
		Status:    overall,
		Timestamp: time.Now(),
		Services:  services,
		Queue:     stats,
	})
}

func (h *ImageHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "Image toolkit API is running",
	})
}
