package middleware

import (
	"context"
	"fmt"
	"time"

	"tutormatch/backend/internal/api/response"
	"tutormatch/backend/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Limiter is satisfied by *storage.Service.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit is a per client IP fixed window limit on the route.
// Without a limiter or on Redis errors requests pass.
func RateLimit(limiter Limiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", c.FullPath(), c.ClientIP())
		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.Fail(c, apperr.ErrRateLimited)
			return
		}

		c.Next()
	}
}
