package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wedding/site/internal/metrics"
)

// Metrics records request counts and latency labelled by the matched route,
// so path parameters do not explode the label space.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
