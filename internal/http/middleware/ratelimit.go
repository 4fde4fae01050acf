package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// counter increments the hit count for key inside a fixed window.
type counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter blocks clients that send more than limit requests per window.
type RateLimiter struct {
	counter counter
	limit   int
	window  time.Duration
}

// Handler returns the gin middleware. A nil limiter lets everything through.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.counter == nil || l.limit <= 0 {
			c.Next()
			return
		}

		endpoint := c.FullPath()
		key := "taskflow:rl:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + c.ClientIP()

		val, err := l.counter.Incr(c.Request.Context(), key, l.window)
		if err != nil {
			// fail-open so a limiter outage never takes the API down
			c.Header("X-RateLimit-Error", "counter-error")
			c.Next()
			return
		}

		remaining := int64(l.limit) - val
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if val > int64(l.limit) {
			RLBlocked.WithLabelValues(endpoint).Inc()
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   true,
				"message": "Rate limit exceeded",
			})
			return
		}

		RLRequests.WithLabelValues(endpoint).Inc()
		c.Next()
	}
}
