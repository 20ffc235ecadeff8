package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/ErlanBelekov/guide-api/internal/metrics"
	"github.com/ErlanBelekov/guide-api/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

type allower interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// RateLimit throttles per client IP under the given bucket name. If the
// limiter itself fails the request is let through.
func RateLimit(limiter allower, bucket string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), bucket+":"+c.ClientIP())
		if err != nil {
			logger.WarnContext(c.Request.Context(), "rate limiter unavailable", "bucket", bucket, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
		if !res.Allowed {
			metrics.RateLimitedTotal.WithLabelValues(bucket).Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
