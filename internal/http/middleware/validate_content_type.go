package middleware

import (
	"mime"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"go.uber.org/zap"
)

// ValidateContentType rejects operation requests that are not multipart uploads.
func ValidateContentType(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		mediaType, _, err := mime.ParseMediaType(ctx.GetHeader("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			RespondError(ctx, logger, apperrors.InvalidField("http.content_type", "image",
				"Request must be multipart/form-data with an image field"))
			return
		}
		ctx.Next()
	}
}
