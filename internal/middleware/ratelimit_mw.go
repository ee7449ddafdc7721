package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"blog_api/internal/logger"
	"blog_api/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter counts hits per key
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// RateLimitMiddleware throttles requests per client IP. A nil limiter disables it.
func RateLimitMiddleware(limiter Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Ctx(c.Request.Context()).Error("rate limiter failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Server error")
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.ResetIn.Seconds()))))
			abortWithError(c, http.StatusTooManyRequests, "Too many attempts, try again later")
			return
		}

		c.Next()
	}
}
