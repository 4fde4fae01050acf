package middleware

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
)

// LatencyDelay draws a delay uniformly from [min, max). When max <= min the
// delay is exactly min.
func LatencyDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// Latency simulates a slow network before the handler runs. A client that
// disconnects while waiting aborts the request.
func Latency(min, max time.Duration) gin.HandlerFunc {
	if min <= 0 && max <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		timer := time.NewTimer(LatencyDelay(min, max))
		defer timer.Stop()

		select {
		case <-timer.C:
			c.Next()
		case <-c.Request.Context().Done():
			c.Abort()
		}
	}
}
