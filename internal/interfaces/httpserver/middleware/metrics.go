package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fx-gateway/internal/infrastructure/metrics"
)

// RequestMetrics counts every handled request by method, route template and
// status code.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}
