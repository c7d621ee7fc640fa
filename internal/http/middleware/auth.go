package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-toolkit/internal/services/ratelimit"
	"go.uber.org/zap"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
)

// Auth authenticates the bearer key and consumes one unit of its quota before the
// request reaches a handler.
func Auth(limiter *ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ratelimit.ParseBearer(ctx.GetHeader("Authorization"))
		if err != nil {
			RespondError(ctx, logger, err)
			return
		}

		cred, err := limiter.Authenticate(token)
		if err != nil {
			RespondError(ctx, logger, err)
			return
		}

		remaining, err := limiter.CheckAndConsume(ctx.Request.Context(), cred)
		ctx.Header(HeaderRateLimitLimit, strconv.Itoa(cred.Quota))
		ctx.Header(HeaderRateLimitRemaining, strconv.Itoa(remaining))
		if err != nil {
			RespondError(ctx, logger, err)
			return
		}

		ctx.Next()
	}
}
