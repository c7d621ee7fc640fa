package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
	"go.uber.org/zap"
)

// ErrorHandler turns panics into the standard error envelope
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", ctx.Request.URL.Path),
			zap.String("method", ctx.Request.Method),
		)

		ctx.AbortWithStatusJSON(500, models.APIResponse{
			Status:  models.StatusError,
			Message: apperrors.PublicMessage(nil),
		})
	})
}

// RespondError writes err as the error envelope with the status of its kind and aborts
// the chain.
func RespondError(ctx *gin.Context, logger *zap.Logger, err error) {
	kind := apperrors.KindOf(err)
	status := apperrors.HTTPStatus(kind)

	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("path", ctx.Request.URL.Path),
		zap.Error(err),
	}
	if status >= 500 {
		logger.Error("Request failed", fields...)
	} else {
		logger.Info("Request rejected", fields...)
	}

	ctx.AbortWithStatusJSON(status, models.APIResponse{
		Status:  models.StatusError,
		Message: apperrors.PublicMessage(err),
	})
}
